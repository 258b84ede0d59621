package dashutil

import "regexp"

const (
	SIGNALNAME_MAX  = 30
	FNNAME_MAX      = 30
	ATTRNAME_MAX    = 40
	FEATURENAME_MAX = 30
	TAGNAME_MAX     = 20
	UUID_LEN        = 36
)

var (
	SIGNALNAME_RE  = regexp.MustCompile("^[a-z][a-z0-9_-]*$")
	FNNAME_RE      = regexp.MustCompile("^[a-zA-Z_][a-zA-Z0-9_]*$")
	ATTRNAME_RE    = regexp.MustCompile("^[a-zA-Z_:][a-zA-Z0-9_.:-]*$")
	STYLEPROP_RE   = regexp.MustCompile("^-?-?[a-zA-Z][a-zA-Z0-9-]*$")
	FEATURENAME_RE = regexp.MustCompile("^[a-z][a-z0-9]*$")
	TAGNAME_RE     = regexp.MustCompile("^[a-z][a-z0-9-]*$")
	UUID_RE        = regexp.MustCompile("^[a-fA-F0-9-]{36}$")
)

func IsUUIDValid(uuid string) bool {
	if len(uuid) != UUID_LEN {
		return false
	}
	return UUID_RE.MatchString(uuid)
}

func IsSignalNameValid(signal string) bool {
	if len(signal) > SIGNALNAME_MAX {
		return false
	}
	return SIGNALNAME_RE.MatchString(signal)
}

func IsFnNameValid(fnName string) bool {
	if len(fnName) > FNNAME_MAX {
		return false
	}
	return FNNAME_RE.MatchString(fnName)
}

func IsAttrNameValid(attrName string) bool {
	if len(attrName) > ATTRNAME_MAX {
		return false
	}
	return ATTRNAME_RE.MatchString(attrName)
}

func IsStylePropValid(prop string) bool {
	if len(prop) > ATTRNAME_MAX {
		return false
	}
	return STYLEPROP_RE.MatchString(prop)
}

func IsFeatureNameValid(feature string) bool {
	if len(feature) > FEATURENAME_MAX {
		return false
	}
	return FEATURENAME_RE.MatchString(feature)
}

func IsTagNameValid(tag string) bool {
	if len(tag) > TAGNAME_MAX {
		return false
	}
	return TAGNAME_RE.MatchString(tag)
}
