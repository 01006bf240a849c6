package config

import (
	"fmt"
)

type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("configuration file missing: %s", e.Path)
}

type InvalidYAMLError struct {
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", ConfigFile, e.Wrapped)
}

type InvalidConfigError struct {
	Wrapped error
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("%s is not a valid fmtbot configuration: %v", ConfigFile, e.Wrapped)
}
