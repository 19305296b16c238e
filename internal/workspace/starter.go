package workspace

import "github.com/rcliao/writer-harness/internal/model"

// StarterLedger is the example ledger written by Init.
func StarterLedger() *model.Ledger {
	return &model.Ledger{
		LocationCurrent:           "Novo-Ogaryovo — private salon",
		LocationPrevious:          "Novo-Ogaryovo — bathing wing antechamber",
		TimeOfDay:                 "early afternoon",
		DateOrDayCount:            "Day 17",
		ElapsedTimeSinceLastScene: "25 minutes",
		WhoPresent:                []string{"He", "Phoenix", "Aide (outside door)"},
		TransportLastLeg: map[string]any{
			"vehicle":  "helicopter",
			"from":     "Moscow",
			"to":       "Novo-Ogaryovo",
			"duration": "38 minutes",
		},
		RelationshipElapsedTime: "3 months since first contact",
		RelationshipLastContact: "10 days since last in-person meeting",
		RelationshipStatusNote:  "proximity is controlled; contact is intermittent",
		PhysicalConstraints: map[string]any{
			"injuries":   []string{"Phoenix: faint bruising at wrists (older, healing)"},
			"restraints": []string{},
			"fatigue":    []string{"Phoenix: mild post-swim fatigue"},
		},
		DevicesAndObjectsInScene: []string{
			"His phone on side table (silent)",
			"Water carafe and glass on low table",
		},
		SceneGoal:   "A controlled confrontation. He tests boundaries; she resists.",
		ToneProfile: "restrained, observational, unsentimental",
	}
}

// StarterStyleRules is the example rule set written by Init.
func StarterStyleRules() *model.StyleRules {
	return &model.StyleRules{
		HardRules: model.RuleGroups{
			{Name: "pov_and_address", Rules: []string{
				"Narration is first person (I) or third person (he/she). Never second person outside direct dialogue.",
				"Do not address the reader as 'you' in narration.",
			}},
			{Name: "continuity_priority", Rules: []string{
				"Continuity Ledger overrides all other text. Do not contradict it.",
				"No location changes without explicit travel/transition.",
				"No time jumps without explicit elapsed time.",
			}},
			{Name: "anti_cheese_editorializing", Rules: []string{
				"No thesis/diagnosis sentences (e.g., 'What he won't admit:', 'The truth is', 'He realizes', 'She realizes').",
				"Do not name abstract relational states (victory, surrender, dominance, power) as authorial conclusions.",
				"Do not moralize or explain the dynamic. Show behavior and let implication stand.",
			}},
			{Name: "anti_haunted_objects", Rules: []string{
				"Inanimate objects do not emote, symbolize, mirror emotion, or 'do work'.",
				"Do not add decorative environmental details unless operationally relevant to action or continuity.",
				"Avoid metaphor patterns that animate the room (e.g., silence pools/spills/hangs, light interrogates, walls listen).",
			}},
			{Name: "physiological_cliches", Rules: []string{
				"Avoid melodramatic physiological cues ('breath hitches', gasping, shuddering, trembling) unless explicitly warranted.",
				"If physiology is used, prefer neutral metrics (pulse rate, temperature, dry mouth, muscle tension).",
			}},
			{Name: "banned_domains", Rules: []string{
				"Avoid strategic/game metaphors (chess, grandmaster, pawn, gambit) unless explicitly requested.",
				"Avoid medals/trophies as shorthand props.",
			}},
			{Name: "dialogue_and_exposition", Rules: []string{
				"Dialogue is sparse and intentional. No monologues explaining motives.",
				"Do not over-explain backstory. Do not recap unless necessary for immediate comprehension.",
			}},
			{Name: "luxury_rendering", Rules: []string{
				"Luxury is conveyed through precision, maintenance, and logistics—not spectacle or symbolism.",
				"Staff are mostly invisible; service is frictionless; spaces are controlled (light, sound, temperature).",
			}},
			{Name: "anti_meta", Rules: []string{
				"No references to 'the reader', 'the story', 'the narrative', or authorial intent.",
				"Do not explain how tension should escalate.",
				"Do not summarize characters or motivations mid-scene.",
				"Stay inside character POV and observable behavior only.",
			}},
			{Name: "scene_containment", Rules: []string{
				"Do not change location unless explicitly instructed by user seed or justified by dialogue.",
				"Do not introduce new backstory events unless directly relevant to immediate dialogue.",
				"Do not insert historical exposition mid-scene. Stay in the present moment of the scene.",
				"Do not reference past events unless they are being actively discussed in the current scene.",
			}},
		},
		SoftPreferences: model.RuleGroups{
			{Name: "tension_tools", Rules: []string{
				"Prefer micro-actions over metaphors: pauses, gaze timing, stillness, proximity.",
				"Use silence as a beat, not a poetic object.",
				"Show control via behavior and access, not via décor.",
			}},
			{Name: "style", Rules: []string{
				"Clean sentences. Minimal adjectives. No purple prose.",
				"If a sentence reads like back-cover copy, rewrite it colder.",
			}},
			{Name: "scene_management", Rules: []string{
				"When uncertain, stay in-scene. Do not introduce new locations, characters, or plot devices.",
				"If something must be implied, imply it once and move on.",
			}},
		},
		OutputTargets: &model.OutputTargets{
			LengthWords:             []int{600, 1200},
			IncludeContinuityFooter: false,
		},
	}
}

// StarterPatternSet is the example banned_phrases.yaml written by Init.
func StarterPatternSet() model.PatternSet {
	return model.PatternSet{
		BannedRegex: []string{
			`(?i)breath\s+hitch`,
			`(?i)silence\s+pools`,
			`(?i)spilled\s+ink`,
			`(?i)the\s+truth\s+is`,
			`(?i)what\s+he\s+won'?t\s+admit`,
			`(?i)what\s+she\s+won'?t\s+admit`,
			`(?i)he\s+realizes`,
			`(?i)she\s+realizes`,
			`(?i)like\s+a\s+grandmaster`,
			`(?i)chess(piece|board|\s+pieces)?`,
			`(?i)the\s+room\s+(watches|listens|holds\s+its\s+breath)`,
			`(?i)the\s+air\s+(thickens|tightens)`,
			`(?i)(walls|ceiling|floor)\s+(listen|witness|remember)`,
			`(?i)(light|shadow|darkness)\s+(interrogates|judges|accuses)`,
			`(?i)the\s+reader`,
			`(?i)the\s+narrative`,
			`(?i)the\s+story`,
			`(?i)authorial\s+intent`,
			`(?i)as\s+the\s+author`,
		},
		WarnRegex: []string{
			`(?i)cufflinks\b`,
			`(?i)designer\b`,
			`(?i)perfectly\s+aligned`,
			`(?i)hum\w*\b`,
			`(?i)green\s+blink`,
			`(?i)tension\s+(?:builds|escalates|mounts)`,
			`(?i)(?:the\s+)?(?:mood|atmosphere)\s+(?:shifts|changes|deepens)`,
			`(?i)(?:she|he)\s+(?:knew|understood|realized)\s+(?:that\s+)?(?:he|she|it)`,
		},
	}
}
