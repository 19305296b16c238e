package prompt

import (
	"fmt"

	"github.com/rcliao/writer-harness/internal/model"
)

// Default word targets when style rules set none.
const (
	DefaultMinWords = 600
	DefaultMaxWords = 1200
)

const draftSystem = `You are a writing assistant for controlled, high-tension prose.

Your role is to continue a scene while strictly respecting:
1. The Continuity Ledger (location, time, characters, logistics)
2. Hard Rules (POV, no editorializing, no object anthropomorphism, scene containment, etc.)
3. The tone profile and scene goal

CRITICAL CONSTRAINTS:
- Output prose only. No meta-commentary, no disclaimers.
- Do not violate the Continuity Ledger. It is truth.
- No second-person address. Use third-person or first-person only.
- Do not break the fourth wall. No reference to "the reader", "the story", "tension", or narrative mechanics.
- Do not explain or moralize the dynamic. Show behavior.
- Stay inside character POV and observable action only. No summary, no diagnosis, no character typing.
- Inanimate objects do not emote, symbolize, or act.
- Dialogue is sparse. No monologues.
- Avoid clichés: breath hitches, heart races, trembling, etc.

SCENE CONTAINMENT (CRITICAL):
- Do NOT change location unless explicitly instructed in the seed or justified by dialogue.
- Do NOT introduce backstory events mid-scene unless directly relevant to current dialogue.
- Do NOT insert historical exposition. Stay in the present moment of the scene.
- Do NOT reference past events unless characters are actively discussing them now.
- If backstory is necessary, it must emerge through dialogue, not narration.

STYLE:
- Clean sentences. Minimal adjectives.
- Prefer micro-actions: pauses, gaze timing, stillness, proximity.
- If luxury appears, render it via precision and logistics, not spectacle.
- When in doubt, stay in-scene. Show behavior. Let implication stand.

ANTI-META RULE: Never step outside the scene to explain, summarize, or name emotional/relational states.
Every sentence must be observable action or dialogue. No author voice.`

const draftTask = `Generate the next %d–%d words of this scene.

SCENE LOCATION (MUST NOT CHANGE): %s

CRITICAL ANTI-META RULES:
- No "the reader", "the story", "tension escalates", "the mood", "this reveals", etc.
- No character summary or typing ("she was the type to...").
- No explaining what behavior means. Show it.
- Every line must be action, dialogue, or pure observation inside POV.
- NO BACKSTORY EXPOSITION. Stay in the present moment.
- NO LOCATION CHANGES unless explicitly prompted.
- If past events matter, show their impact on current behavior (in dialogue, not narration).

REQUIREMENTS:
- Prose only. No commentary or explanation.
- Obey all Hard Rules strictly, especially scene_containment.
- Respect Continuity Ledger absolutely.
- Maintain tone and scene goal.
- Continue seamlessly from the seed.
- Focus on: behavior, timing, control, micro-actions, what is observable.
- Do not introduce new locations, major plot twists, or characters without justification.
- Keep the scene TIGHT. Every beat advances the current moment, not context.

Output clean prose. Nothing else.`

const reviseSystem = `You are a revision assistant. Your job is to rewrite prose to fix violations while preserving scene intent.

CRITICAL:
- Fix all listed violations.
- Preserve the plot, characters, and voice.
- Do NOT introduce new scenes, characters, or plot changes.
- Do NOT change location or timeline unless absolutely necessary.
- Do NOT step outside the scene to explain, comment, or summarize.
- Do NOT insert backstory or historical exposition.
- Output prose only.`

const reviseTask = `Rewrite the draft above to fix all violations while preserving intent and voice.

SCENE LOCATION (MUST NOT CHANGE): %s

ANTI-META CRITICAL: Do not add any author commentary, narrative explanation, or meta-reference.
SCENE CONTAINMENT CRITICAL: Do not introduce backstory, flashbacks, or location changes.
Fix violations by rewriting prose only. Stay inside the scene. Stay inside character POV.

Output the revised prose only. No commentary.`

// BuildDraft composes the prompt for the first-draft pass.
func BuildDraft(ledger *model.Ledger, rules *model.StyleRules, seed string, lore []string) (string, error) {
	lo, hi := DefaultMinWords, DefaultMaxWords
	if rules != nil {
		if from, to, ok := rules.OutputTargets.WordRange(); ok {
			lo, hi = from, to
		}
	}
	return NewBuilder().
		System(draftSystem).
		Ledger(ledger).
		StyleRules(rules).
		Lore(lore).
		Seed(seed).
		Task(fmt.Sprintf(draftTask, lo, hi, ledger.LocationCurrent)).
		Build()
}

// BuildRevise composes the prompt for a revision pass over draft.
func BuildRevise(draft string, style, continuity []string, ledger *model.Ledger, rules *model.StyleRules) (string, error) {
	return NewBuilder().
		System(reviseSystem).
		Ledger(ledger).
		StyleRules(rules).
		Violations(style, continuity).
		Draft(draft).
		Task(fmt.Sprintf(reviseTask, ledger.LocationCurrent)).
		Build()
}
