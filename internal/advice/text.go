package advice

import (
	"fmt"

	"github.com/abhisek/prepdeck/internal/catalog"
)

func describe(a Advice) (advice, action string) {
	next := catalog.DisplayName(a.NextModule)

	if a.Status == StatusNeutral {
		return fmt.Sprintf("So far you have only practiced %s (%.0f%%). Try other modules to get a complete picture.", a.Strength.Name, a.Strength.Value),
			fmt.Sprintf("Start a practice session in %s.", next)
	}

	if a.Strength.Module == a.Critical.Module {
		return fmt.Sprintf("Your results are even across modules at %.0f%%.", a.Strength.Value),
			fmt.Sprintf("Continue with %s.", next)
	}

	switch a.Status {
	case StatusExcellent:
		advice = fmt.Sprintf("Excellent work. %s is your strongest area at %.0f%%; keep %s from slipping.", a.Strength.Name, a.Strength.Value, a.Critical.Name)
		action = "Take a full simulation to confirm you are exam ready."
	case StatusGood:
		advice = fmt.Sprintf("Good progress. %s leads at %.0f%% while %s trails at %.0f%%.", a.Strength.Name, a.Strength.Value, a.Critical.Name, a.Critical.Value)
		action = fmt.Sprintf("Do a focused practice round in %s and review every explanation.", next)
	case StatusImproving:
		advice = fmt.Sprintf("You are improving. %s at %.0f%% needs the most attention.", a.Critical.Name, a.Critical.Value)
		action = fmt.Sprintf("Practice %s daily until it passes 60%%.", next)
	default:
		advice = fmt.Sprintf("%s is at %.0f%%. Rebuild the fundamentals before attempting a full simulation.", a.Critical.Name, a.Critical.Value)
		action = fmt.Sprintf("Work through short practice sets in %s and read each explanation.", next)
	}
	return advice, action
}
