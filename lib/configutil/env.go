package configutil

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotenv loads the given .env files into the process environment, missing
// files are skipped and variables already set are kept.
func LoadDotenv(files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overwrites every field of the struct `ptr` points to that carries an
// `env:"NAME"` tag with the value of NAME, when NAME is set and non-empty.
// Nested structs are walked. Supported kinds are string, bool, ints and
// time.Duration.
func ApplyEnv(ptr any) error {
	value := reflect.ValueOf(ptr)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("ApplyEnv expects a pointer to a struct, got %T", ptr)
	}
	return applyEnv(value.Elem())
}

var durationType = reflect.TypeOf(time.Duration(0))

func applyEnv(value reflect.Value) error {
	t := value.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		target := value.Field(i)

		name, tagged := field.Tag.Lookup("env")
		if !tagged {
			if target.Kind() == reflect.Struct {
				err := applyEnv(target)
				if err != nil {
					return err
				}
			}
			continue
		}

		raw := os.Getenv(name)
		if raw == "" {
			continue
		}
		err := setFromString(target, raw)
		if err != nil {
			return fmt.Errorf("env %s: %w", name, err)
		}
	}
	return nil
}

func setFromString(target reflect.Value, raw string) error {
	if target.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		target.SetInt(int64(d))
		return nil
	}

	switch target.Kind() {
	case reflect.String:
		target.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		target.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, target.Type().Bits())
		if err != nil {
			return err
		}
		target.SetInt(n)
	default:
		return fmt.Errorf("unsupported field kind %s", target.Kind())
	}
	return nil
}
