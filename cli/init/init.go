package initfireview

import (
	"fmt"
	"os"

	"github.com/rit3sh-x/fireview/core/constants"
)

// Init scaffolds a fireview project: a schemas directory with a documented
// example schema, plus a .env template for the target configuration.
func Init() error {
	if _, err := os.Stat(constants.PROJECT_DIR); err == nil {
		return fmt.Errorf(constants.RED+"project directory %q already exists"+constants.RESET, constants.PROJECT_DIR)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf(constants.RED+"failed to check directory: %w"+constants.RESET, err)
	}

	if err := os.MkdirAll(constants.SCHEMA_DIR, 0755); err != nil {
		return fmt.Errorf(constants.RED+"failed to create directory %q: %w"+constants.RESET, constants.SCHEMA_DIR, err)
	}

	if err := os.WriteFile(constants.SAMPLE_SCHEMA_FILE, []byte(constants.SampleSchemaContent), 0644); err != nil {
		return fmt.Errorf(constants.RED+"failed to write file %q: %w"+constants.RESET, constants.SAMPLE_SCHEMA_FILE, err)
	}

	envPath := ".env"
	envContent := []byte(constants.EnvContent)

	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		if err := os.WriteFile(envPath, envContent, 0644); err != nil {
			return fmt.Errorf(constants.RED+"failed to create .env file: %w"+constants.RESET, err)
		}
		fmt.Println(constants.GREEN + ".env file created successfully" + constants.RESET)
	} else {
		file, err := os.OpenFile(envPath, os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf(constants.RED+"failed to open .env file: %w"+constants.RESET, err)
		}
		defer file.Close()

		if _, err := file.WriteString("\n" + string(envContent)); err != nil {
			return fmt.Errorf(constants.RED+"failed to append to .env file: %w"+constants.RESET, err)
		}
		fmt.Println(constants.GREEN + "Environment variables added to .env file" + constants.RESET)
	}

	fmt.Printf(constants.GREEN+"✔ Fireview project initialized at ./%s"+constants.RESET+"\n", constants.PROJECT_DIR)
	return nil
}
