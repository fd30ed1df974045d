package config

import "ticketdesk/pkg/recipe"

func presetWithStatus(name, status string) recipe.Recipe {
	return recipe.Recipe{Name: name, Filters: recipe.FilterConfig{Status: status}}
}
