package reports

// Defaults returns the report set served when the operator configures
// none. Every default credits only successful in-play actions and
// excludes unsuccessful ones entirely.
func Defaults() []Definition {
	return []Definition{
		{
			Name:           "threat_creators",
			Title:          "Threat created by passing",
			Kind:           KindThreat,
			Key:            KeyPlayer,
			Types:          []string{"pass"},
			SuccessfulOnly: true,
			InPlayOnly:     true,
		},
		{
			Name:           "threat_carriers",
			Title:          "Threat created by carrying",
			Kind:           KindThreat,
			Key:            KeyPlayer,
			Types:          []string{"carry"},
			SuccessfulOnly: true,
			InPlayOnly:     true,
		},
		{
			Name:            "progressive_passes",
			Title:           "Progressive passes",
			Kind:            KindCount,
			Key:             KeyPlayer,
			Types:           []string{"pass"},
			SuccessfulOnly:  true,
			InPlayOnly:      true,
			ProgressiveOnly: true,
		},
		{
			Name:           "box_entries",
			Title:          "Penalty-box entries",
			Kind:           KindCount,
			Key:            KeyPlayer,
			Types:          []string{"pass", "carry"},
			SuccessfulOnly: true,
			InPlayOnly:     true,
			IntoBoxOnly:    true,
		},
		{
			Name:           "team_threat",
			Title:          "Team threat from open play",
			Kind:           KindThreat,
			Key:            KeyTeam,
			Types:          []string{"pass", "carry"},
			SuccessfulOnly: true,
			InPlayOnly:     true,
		},
	}
}
