package cliutil

import "github.com/charmbracelet/huh"

// ConfirmOverwrite asks the user whether to overwrite an existing output
// file, per §6's CLI overwrite/abort behavior. NonInteractive runs skip the
// prompt entirely and answer as directed by defaultAnswer (the `--non-
// interactive` flag's assumed choice).
func ConfirmOverwrite(path string, nonInteractive, defaultAnswer bool) (bool, error) {
	if nonInteractive {
		return defaultAnswer, nil
	}

	var confirmed bool
	err := huh.NewConfirm().
		Title(path + " already exists. Overwrite?").
		Affirmative("Overwrite").
		Negative("Skip").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}
