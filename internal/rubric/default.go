package rubric

// Default returns a fresh copy of the built-in proposal rubric:
// four sections of four questions each, rated 0-5.
func Default() *Rubric {
	return &Rubric{
		Name:           "Proposal Go/No-Go",
		PerQuestionMax: DefaultPerQuestionMax,
		Sections: []Section{
			{
				Key:    StrategicFit,
				Label:  "Strategic Fit",
				Icon:   "◎",
				Flag:   "sf",
				Accent: "#7c3aed", // violet
				Questions: []string{
					"Aligns with our organizational mission?",
					"Builds on existing programs or expertise?",
					"Strengthens key donor relationships?",
					"Advances long-term strategic goals?",
				},
			},
			{
				Key:    OrganizationalCapacity,
				Label:  "Organizational Capacity",
				Icon:   "⬡",
				Flag:   "oc",
				Accent: "#0891b2", // cyan
				Questions: []string{
					"Sufficient staff expertise available?",
					"Adequate time to prepare a quality proposal?",
					"Established relationships in target geography?",
					"Past performance on similar grants?",
				},
			},
			{
				Key:    FinancialViability,
				Label:  "Financial Viability",
				Icon:   "◈",
				Flag:   "fv",
				Accent: "#059669", // emerald
				Questions: []string{
					"Budget covers full cost of delivery?",
					"Acceptable overhead and indirect rate?",
					"Cash-flow manageable during project?",
					"Reporting requirements are feasible?",
				},
			},
			{
				Key:    RiskAssessment,
				Label:  "Risk Assessment",
				Icon:   "△",
				Flag:   "ra",
				Accent: "#ea580c", // orange
				Questions: []string{
					"Political / security environment is stable?",
					"Low risk of scope creep or mission drift?",
					"Manageable compliance requirements?",
					"Reputational risk is acceptable?",
				},
			},
		},
	}
}
