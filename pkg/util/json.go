package util

import (
	"encoding/json"
	"fmt"
)

// PrintPrettyJSON prints any value as indented JSON, for --output json
// paths.
func PrintPrettyJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}
