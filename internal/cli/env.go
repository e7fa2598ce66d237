package cli

import (
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// envKeyReplacer maps nested keys such as resolve.pronoun_window to
// COREFSIEVE_RESOLVE_PRONOUN_WINDOW
var envKeyReplacer = strings.NewReplacer(".", "_")

// bindEnvKeys registers every mapstructure key of cfg with v. Viper only
// consults the environment during Unmarshal for keys it already knows.
func bindEnvKeys(v *viper.Viper, cfg interface{}) {
	for _, key := range configKeys(reflect.TypeOf(cfg), "") {
		_ = v.BindEnv(key)
	}
}

func configKeys(t reflect.Type, prefix string) []string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if f.Type.Kind() == reflect.Struct && f.Type.PkgPath() != "time" {
			keys = append(keys, configKeys(f.Type, key)...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
