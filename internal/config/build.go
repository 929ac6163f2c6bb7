package config

import "fmt"

type BuildType int

const (
	RELEASE BuildType = iota
	DEBUG
)

func (bt BuildType) String() string {
	switch bt {
	case RELEASE:
		return "release"
	case DEBUG:
		return "debug"
	}
	return "unknown"
}

func ParseBuildType(s string) (BuildType, error) {
	switch s {
	case "release":
		return RELEASE, nil
	case "debug":
		return DEBUG, nil
	}
	return RELEASE, fmt.Errorf("unknown build type %q, expected 'release' or 'debug'", s)
}
