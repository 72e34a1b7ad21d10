// internal/app/listmodels.go
package app

import (
	"fmt"
	"io"

	"r2dt/internal/config"
	"r2dt/internal/models"
)

// ListModels prints every installed template description and refreshes the
// machine-readable catalog next to the template data.
func ListModels(w io.Writer, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	all, err := models.List(cfg)
	if err != nil {
		return err
	}
	for _, m := range all {
		fmt.Fprintln(w, m.Description)
	}
	if err := models.CheckUniqueDescriptions(all); err != nil {
		return err
	}
	return models.WriteJSON(cfg, all)
}

// Blacklisted prints the generic families excluded from drawing.
func Blacklisted(w io.Writer, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	black, err := models.Blacklisted(cfg)
	if err != nil {
		return err
	}
	for _, acc := range black {
		fmt.Fprintln(w, acc)
	}
	return nil
}
