package project

import "os"

// Environment resolves environment variables.
type Environment interface {
	LookupEnv(key string) (string, bool)
}

// OSEnvironment reads the process environment.
type OSEnvironment struct{}

func (OSEnvironment) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnvironment is a fixed set of variables.
type MapEnvironment map[string]string

func (m MapEnvironment) LookupEnv(key string) (string, bool) {
	value, ok := m[key]
	return value, ok
}

// LayeredEnvironment consults each environment in order and returns the
// first non-empty value.
type LayeredEnvironment []Environment

func (l LayeredEnvironment) LookupEnv(key string) (string, bool) {
	found := false
	for _, env := range l {
		value, ok := env.LookupEnv(key)
		if !ok {
			continue
		}
		if value != "" {
			return value, true
		}
		found = true
	}
	return "", found
}
