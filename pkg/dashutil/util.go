package dashutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"time"
)

var TimeoutErr = errors.New("TimeoutErr")

func Ts() int64 {
	return time.Now().UnixNano() / 1000000
}

func MarshalJson(val interface{}) (string, error) {
	var jsonBuf bytes.Buffer
	enc := json.NewEncoder(&jsonBuf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(val)
	if err != nil {
		return "", err
	}
	return jsonBuf.String(), nil
}

func MarshalJsonNoError(val interface{}) string {
	var jsonBuf bytes.Buffer
	enc := json.NewEncoder(&jsonBuf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(val)
	if err != nil {
		return "\"error marshaling json\""
	}
	return jsonBuf.String()
}

// checks for dups
func AddToStringArr(arr []string, val string) []string {
	for _, s := range arr {
		if s == val {
			return arr
		}
	}
	return append(arr, val)
}

// preserves order (class lists are rendered in insertion order)
func RemoveFromStringArr(arr []string, val string) []string {
	pos := -1
	for idx, v := range arr {
		if v == val {
			pos = idx
			break
		}
	}
	if pos == -1 {
		return arr
	}
	return append(arr[:pos], arr[pos+1:]...)
}

func DefaultString(opts ...string) string {
	for _, s := range opts {
		if s != "" {
			return s
		}
	}
	return ""
}

func EnvOverride(val bool, varName string) bool {
	envVal := os.Getenv(varName)
	if envVal == "0" {
		return false
	}
	if envVal == "" {
		return val
	}
	return true
}

// EnvDuration parses varName with time.ParseDuration, returns val if unset or malformed.
func EnvDuration(val time.Duration, varName string) time.Duration {
	envVal := os.Getenv(varName)
	if envVal == "" {
		return val
	}
	dur, err := time.ParseDuration(envVal)
	if err != nil || dur <= 0 {
		return val
	}
	return dur
}
