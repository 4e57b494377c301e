package contracts

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed templates/*.txt
var templateFS embed.FS

// Template returns the bundled plain-text template for a contract type.
func Template(key string) (string, error) {
	data, err := templateFS.ReadFile("templates/" + key + ".txt")
	if err != nil {
		return "", fmt.Errorf("plantilla de contrato desconocida: %s", key)
	}
	return string(data), nil
}

// TemplateKeys lists the bundled contract types.
func TemplateKeys() []string {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(keys)
	return keys
}
