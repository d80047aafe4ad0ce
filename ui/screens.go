package ui

import (
	"fmt"

	"github.com/milk9111/boneklod/levels"
	"github.com/milk9111/boneklod/score"
)

const (
	ScreenMainMenu      ScreenID = "main_menu"
	ScreenLevelSelect   ScreenID = "level_select"
	ScreenRules         ScreenID = "rules"
	ScreenPause         ScreenID = "pause"
	ScreenLevelComplete ScreenID = "level_complete"
	ScreenGameOver      ScreenID = "game_over"
)

// MainMenu starts the first level in entries. errMsg is shown when the
// last level failed to load.
func MainMenu(entries []levels.Entry, wrap bool, errMsg string) *Screen {
	start := Action{Kind: ActionStart}
	if len(entries) > 0 {
		start.Level = entries[0].ID
	}
	s := VerticalScreen(ScreenMainMenu, "Bone Klod", wrap,
		Element{ID: "start", Label: "Start", Action: start, Disabled: len(entries) == 0},
		Element{ID: "levels", Label: "Levels", Action: Action{Kind: ActionLevels}, Disabled: len(entries) == 0},
		Element{ID: "rules", Label: "Rules", Action: Action{Kind: ActionRules}},
		Element{ID: "quit", Label: "Quit", Action: Action{Kind: ActionQuit}},
	)
	if errMsg != "" {
		s.Body = []string{errMsg}
	}
	return s
}

func LevelSelect(entries []levels.Entry, wrap bool) *Screen {
	elems := make([]Element, 0, len(entries)+1)
	for _, e := range entries {
		label := e.Name
		if label == "" {
			label = e.ID
		}
		elems = append(elems, Element{
			ID:     "level:" + e.ID,
			Label:  label,
			Action: Action{Kind: ActionSelectLevel, Level: e.ID},
		})
	}
	elems = append(elems, Element{ID: "back", Label: "Back", Action: Action{Kind: ActionBack}})
	s := VerticalScreen(ScreenLevelSelect, "Levels", wrap, elems...)
	s.Back = Action{Kind: ActionBack}
	return s
}

func Rules() *Screen {
	s := VerticalScreen(ScreenRules, "Rules", false,
		Element{ID: "back", Label: "Back", Action: Action{Kind: ActionBack}},
	)
	s.Body = []string{
		"Roll the klod over bones to absorb them.",
		"A faster klod can absorb heavier bones.",
		"Mana is bone mass times the seconds left.",
		"Finish every objective with enough mana to win.",
		"Hold R to give up.",
	}
	s.Back = Action{Kind: ActionBack}
	return s
}

func Pause() *Screen {
	s := VerticalScreen(ScreenPause, "Paused", true,
		Element{ID: "resume", Label: "Resume", Action: Action{Kind: ActionResume}},
		Element{ID: "restart", Label: "Restart", Action: Action{Kind: ActionRestart}},
		Element{ID: "menu", Label: "Main Menu", Action: Action{Kind: ActionMainMenu}},
	)
	s.Back = Action{Kind: ActionResume}
	return s
}

// LevelComplete offers the next level only after a win.
func LevelComplete(res score.Result, next string) *Screen {
	title := "Level Complete"
	if !res.Won {
		title = "Level Failed"
	}
	s := HorizontalScreen(ScreenLevelComplete, title, false,
		Element{ID: "next", Label: "Next Level", Action: Action{Kind: ActionNextLevel, Level: next}, Disabled: !res.Won || next == ""},
		Element{ID: "retry", Label: "Retry", Action: Action{Kind: ActionRestart}},
		Element{ID: "menu", Label: "Main Menu", Action: Action{Kind: ActionMainMenu}},
	)
	s.Body = resultLines(res)
	return s
}

func GameOver(res score.Result) *Screen {
	s := HorizontalScreen(ScreenGameOver, "Game Over", false,
		Element{ID: "retry", Label: "Retry", Action: Action{Kind: ActionRestart}},
		Element{ID: "menu", Label: "Main Menu", Action: Action{Kind: ActionMainMenu}},
	)
	s.Body = resultLines(res)
	return s
}

func resultLines(res score.Result) []string {
	return []string{
		res.Hint,
		fmt.Sprintf("Mana: %.0f", res.Mana),
		fmt.Sprintf("Bones absorbed: %d", res.Collected),
	}
}
