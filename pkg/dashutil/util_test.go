package dashutil

import (
	"os"
	"testing"
	"time"
)

func TestValidators(t *testing.T) {
	if !IsSignalNameValid("cancel") || !IsSignalNameValid("opened") || !IsSignalNameValid("click") {
		t.Errorf("standard signal names should be valid")
	}
	if IsSignalNameValid("Cancel") || IsSignalNameValid("") || IsSignalNameValid("on click") {
		t.Errorf("bad signal names should be invalid")
	}
	if !IsFnNameValid("showModal") || IsFnNameValid("show()") {
		t.Errorf("fn name validation failed")
	}
	if !IsAttrNameValid("autofocus") || !IsAttrNameValid("aria-label") || IsAttrNameValid("on click") {
		t.Errorf("attr name validation failed")
	}
	if !IsStylePropValid("max-width") || !IsStylePropValid("--lumo-size") || IsStylePropValid("width;") {
		t.Errorf("style prop validation failed")
	}
	if !IsFeatureNameValid("escguard") || IsFeatureNameValid("esc-guard") {
		t.Errorf("feature name validation failed")
	}
	if !IsTagNameValid("dialog") || !IsTagNameValid("h1") || IsTagNameValid("<div>") {
		t.Errorf("tag name validation failed")
	}
	if !IsUUIDValid("c0a4f5b2-5b5e-4f38-9c1a-0d6b9a1e2f33") || IsUUIDValid("not-a-uuid") {
		t.Errorf("uuid validation failed")
	}
}

func TestStringArr(t *testing.T) {
	arr := AddToStringArr(nil, "a")
	arr = AddToStringArr(arr, "b")
	arr = AddToStringArr(arr, "a")
	if len(arr) != 2 {
		t.Errorf("AddToStringArr should not add dups, got %v", arr)
	}
	arr = AddToStringArr(arr, "c")
	arr = RemoveFromStringArr(arr, "a")
	if len(arr) != 2 || arr[0] != "b" || arr[1] != "c" {
		t.Errorf("RemoveFromStringArr should preserve order, got %v", arr)
	}
	arr = RemoveFromStringArr(arr, "zz")
	if len(arr) != 2 {
		t.Errorf("RemoveFromStringArr removed missing value, got %v", arr)
	}
}

func TestMarshalJson(t *testing.T) {
	str, err := MarshalJson(map[string]string{"html": "<b>"})
	if err != nil {
		t.Fatalf("MarshalJson err:%v", err)
	}
	if str != "{\"html\":\"<b>\"}\n" {
		t.Errorf("MarshalJson should not escape html, got %q", str)
	}
	if MarshalJsonNoError(func() {}) != "\"error marshaling json\"" {
		t.Errorf("MarshalJsonNoError should return error string for bad values")
	}
}

func TestEnv(t *testing.T) {
	os.Setenv("DASHUTIL_TEST_BOOL", "0")
	defer os.Unsetenv("DASHUTIL_TEST_BOOL")
	if EnvOverride(true, "DASHUTIL_TEST_BOOL") {
		t.Errorf("EnvOverride should return false for '0'")
	}
	os.Setenv("DASHUTIL_TEST_BOOL", "1")
	if !EnvOverride(false, "DASHUTIL_TEST_BOOL") {
		t.Errorf("EnvOverride should return true for '1'")
	}
	if !EnvOverride(true, "DASHUTIL_TEST_UNSET") {
		t.Errorf("EnvOverride should return default when unset")
	}
	os.Setenv("DASHUTIL_TEST_DUR", "250ms")
	defer os.Unsetenv("DASHUTIL_TEST_DUR")
	if EnvDuration(time.Second, "DASHUTIL_TEST_DUR") != 250*time.Millisecond {
		t.Errorf("EnvDuration did not parse duration")
	}
	os.Setenv("DASHUTIL_TEST_DUR", "junk")
	if EnvDuration(time.Second, "DASHUTIL_TEST_DUR") != time.Second {
		t.Errorf("EnvDuration should fall back on bad values")
	}
	if DefaultString("", "", "x", "y") != "x" {
		t.Errorf("DefaultString should return first non-empty")
	}
}
