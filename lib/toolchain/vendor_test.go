// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolchain

import "testing"

func TestDetectVendor(t *testing.T) {
	tests := []struct {
		compiler string
		want     Vendor
	}{
		{"g++", VendorGNU},
		{"/usr/bin/g++-13", VendorGNU},
		{"x86_64-linux-gnu-gcc", VendorGNU},
		{"cc", VendorGNU},
		{"c++", VendorGNU},
		{"clang++", VendorLLVM},
		{"/usr/lib/llvm-17/bin/clang", VendorLLVM},
		{"icpx", VendorIntelLLVM},
		{"icpc", VendorIntel},
		{"nvc++", VendorNVHPC},
		{"pgc++", VendorNVHPC},
		{"xlc++", VendorIBM},
		{"crayCC", VendorCray},
		{`C:\Program Files\MSVC\bin\cl.exe`, VendorMSVC},
		{"cl.exe", VendorMSVC},
		{"mystery-compiler", VendorUnknown},
	}
	for _, test := range tests {
		if got := DetectVendor(test.compiler); got != test.want {
			t.Errorf("DetectVendor(%q) = %s, want %s", test.compiler, got, test.want)
		}
	}
}

func TestParseVendorRoundTrip(t *testing.T) {
	for vendor := range vendorNames {
		parsed, err := ParseVendor(vendor.String())
		if err != nil {
			t.Errorf("ParseVendor(%q): %v", vendor, err)
			continue
		}
		if parsed != vendor {
			t.Errorf("ParseVendor(%q) = %s", vendor, parsed)
		}
	}
}

func TestStandardFlags(t *testing.T) {
	if got := VendorGNU.StandardFlags(LanguageCPP); got != "-std=c++11" {
		t.Errorf("GNU C++ = %q", got)
	}
	if got := VendorLLVM.StandardFlags(LanguageC); got != "-std=c99" {
		t.Errorf("LLVM C = %q", got)
	}
	if got := VendorMSVC.StandardFlags(LanguageCPP); got != "" {
		t.Errorf("MSVC C++ = %q, want none", got)
	}
}
