package project

import (
	"fmt"
	"strings"
)

// ProjectType classifies a project and drives its layout and task set.
type ProjectType string

const (
	ProjectTypeLib             ProjectType = "lib"
	ProjectTypeCLI             ProjectType = "cli"
	ProjectTypeAPI             ProjectType = "api"
	ProjectTypeAwsMicroservice ProjectType = "aws-microservice"
)

// ProjectTypes lists every supported project type.
func ProjectTypes() []ProjectType {
	return []ProjectType{
		ProjectTypeLib,
		ProjectTypeCLI,
		ProjectTypeAPI,
		ProjectTypeAwsMicroservice,
	}
}

// Valid reports whether t is a supported project type.
func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeLib, ProjectTypeCLI, ProjectTypeAPI, ProjectTypeAwsMicroservice:
		return true
	}
	return false
}

func (t ProjectType) String() string { return string(t) }

// ParseProjectType converts a raw buildMetadata.projectType value.
func ParseProjectType(s string) (ProjectType, error) {
	t := ProjectType(s)
	if !t.Valid() {
		return "", newError(ErrInvalidProjectType, "buildMetadata.projectType",
			"got %q, must be one of: [%s]", s, joinValues(ProjectTypes()))
	}
	return t, nil
}

// Language is the source language of a project.
type Language string

const (
	LanguageJS Language = "js"
	LanguageTS Language = "ts"
)

// Languages lists every supported language.
func Languages() []Language {
	return []Language{LanguageJS, LanguageTS}
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	switch l {
	case LanguageJS, LanguageTS:
		return true
	}
	return false
}

func (l Language) String() string { return string(l) }

// ParseLanguage converts a raw buildMetadata.language value.
func ParseLanguage(s string) (Language, error) {
	l := Language(s)
	if !l.Valid() {
		return "", newError(ErrInvalidLanguage, "buildMetadata.language",
			"got %q, must be one of: [%s]", s, joinValues(Languages()))
	}
	return l, nil
}

func joinValues[T fmt.Stringer](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
