/*
survey.go - Survey-derived comparison context

PURPOSE:
  Carries everything a completed needs-analysis survey contributes to a
  comparison: the user's profile values, per-area confidence levels,
  stated priorities, hard filters, and an overall profile strength.
  All of it is optional; a comparison without survey context runs the
  standard scoring path untouched.

KEY CONCEPTS:
  - Confidence: 1-5 self-assessment per area; scales both the score and
    the weight of matching criteria
  - Priority: vocabulary ("essential", "nice_to_have") or numeric scale;
    drives the post-aggregation priority boost
  - ProfileStrength: 0-1 blend of confidence and completeness; discloses
    how personalized the recommendation text may claim to be

SEE ALSO:
  - enhance.go: how confidence and priorities reshape scores
  - filter.go: hard filter semantics
*/
package compare

// =============================================================================
// SURVEY CONTEXT
// =============================================================================

// SurveyContext is the optional third input to Compare.
type SurveyContext struct {
	Profile         UserProfile
	Confidence      map[FieldName]int   // 1..5 per field or area
	Priorities      map[FieldName]Value // vocabulary or numeric scale
	Filters         FilterSet
	ProfileStrength float64 // 0..1, see ProfileStrength()
}

// HasPriorities reports whether the survey stated any priorities; the
// priority_match recommendation only exists when it did.
func (s *SurveyContext) HasPriorities() bool {
	return s != nil && len(s.Priorities) > 0
}

// UserProfile holds the typed preferences a survey collects. Absent values
// are explicit; zero is a real answer.
type UserProfile struct {
	MonthlyBudget      Value // number, or descriptive string ("affordable")
	CoveragePreference Value // number
	WaitingTolerance   Value // days
	Age                Value
	FamilySize         Value

	// Features holds wanted-feature flags and any other free-form
	// preferences keyed by policy field name.
	Features map[FieldName]Value
}

// Feature returns a free-form profile preference by field name.
func (p UserProfile) Feature(f FieldName) Value {
	if p.Features == nil {
		return Value{}
	}
	return p.Features[f]
}

// WantsFeature reports whether the profile asks for a boolean feature.
func (p UserProfile) WantsFeature(f FieldName) bool {
	return p.Feature(f).Truthy()
}

// =============================================================================
// PROFILE STRENGTH
// =============================================================================

// ProfileStrength blends how confident the user was across survey areas
// (70%) with how much of the survey they completed (30%), clamped to
// [0, 1]. Callers that already hold a computed strength may pass it
// through on SurveyContext directly.
func ProfileStrength(confidence map[FieldName]int, sectionsCompleted, sectionsTotal int) float64 {
	conf := 0.0
	if len(confidence) > 0 {
		sum := 0
		for _, c := range confidence {
			if c < 1 {
				c = 1
			}
			if c > 5 {
				c = 5
			}
			sum += c
		}
		conf = float64(sum) / float64(len(confidence)*5)
	}

	sect := 0.0
	if sectionsTotal > 0 {
		sect = float64(sectionsCompleted) / float64(sectionsTotal)
		if sect > 1 {
			sect = 1
		}
	}

	strength := conf*0.7 + sect*0.3
	if strength < 0 {
		return 0
	}
	if strength > 1 {
		return 1
	}
	return strength
}
