package database

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Decode copies document data into out, matching fields by their `firestore` struct tags.
// RFC 3339 strings are accepted for time fields so JSON change records decode like snapshots.
func Decode(data map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "firestore",
		Result:           out,
		WeaklyTypedInput: false,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("database: failed to build decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("database: failed to decode document: %w", err)
	}
	return nil
}
