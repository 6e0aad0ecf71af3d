// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolchain

import (
	"fmt"
	"strings"
)

// Vendor identifies a compiler family. Flags that differ between
// families are keyed by Vendor.
type Vendor int

const (
	VendorUnknown Vendor = iota
	VendorGNU
	VendorLLVM
	VendorIntel
	VendorIntelLLVM
	VendorNVHPC
	VendorIBM
	VendorCray
	VendorMSVC
)

var vendorNames = map[Vendor]string{
	VendorUnknown:   "unknown",
	VendorGNU:       "gnu",
	VendorLLVM:      "llvm",
	VendorIntel:     "intel",
	VendorIntelLLVM: "intel_llvm",
	VendorNVHPC:     "nvhpc",
	VendorIBM:       "ibm",
	VendorCray:      "cray",
	VendorMSVC:      "msvc",
}

// String returns the vendor's property spelling.
func (v Vendor) String() string {
	if name, ok := vendorNames[v]; ok {
		return name
	}
	return fmt.Sprintf("vendor(%d)", int(v))
}

// ParseVendor parses a compiler_vendor property value. A few common
// aliases (clang, pgi, gcc) are accepted.
func ParseVendor(name string) (Vendor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gnu", "gcc":
		return VendorGNU, nil
	case "llvm", "clang":
		return VendorLLVM, nil
	case "intel":
		return VendorIntel, nil
	case "intel_llvm", "oneapi":
		return VendorIntelLLVM, nil
	case "nvhpc", "pgi", "nvidia":
		return VendorNVHPC, nil
	case "ibm", "xl":
		return VendorIBM, nil
	case "cray":
		return VendorCray, nil
	case "msvc":
		return VendorMSVC, nil
	case "unknown":
		return VendorUnknown, nil
	default:
		return VendorUnknown, fmt.Errorf("unknown compiler vendor %q", name)
	}
}

// DetectVendor infers the vendor from the compiler executable name.
// Version suffixes (g++-13, clang++-17) and directories are ignored.
// Plain cc and c++ are assumed to be GNU, the common system default.
func DetectVendor(compiler string) Vendor {
	name := strings.ToLower(strings.ReplaceAll(compiler, `\`, "/"))
	name = name[strings.LastIndexByte(name, '/')+1:]
	name = strings.TrimSuffix(name, ".exe")

	switch {
	case strings.Contains(name, "clang"):
		return VendorLLVM
	case strings.HasPrefix(name, "icpx"), strings.HasPrefix(name, "icx"), strings.HasPrefix(name, "dpcpp"):
		return VendorIntelLLVM
	case strings.HasPrefix(name, "icpc"), strings.HasPrefix(name, "icc"):
		return VendorIntel
	case strings.HasPrefix(name, "nvc"), strings.HasPrefix(name, "pgc"):
		return VendorNVHPC
	case strings.HasPrefix(name, "xl"):
		return VendorIBM
	case strings.HasPrefix(name, "cray"):
		return VendorCray
	case name == "cl":
		return VendorMSVC
	case strings.Contains(name, "g++"), strings.Contains(name, "gcc"),
		name == "c++", name == "cc", strings.HasSuffix(name, "-c++"), strings.HasSuffix(name, "-cc"):
		return VendorGNU
	default:
		return VendorUnknown
	}
}

// StandardFlags returns the flags selecting the language standard the
// generated kernels are written against: C++11 or C99.
func (v Vendor) StandardFlags(language Language) string {
	switch v {
	case VendorMSVC, VendorUnknown:
		return ""
	case VendorIBM:
		if language == LanguageC {
			return "-qlanglvl=extc99"
		}
		return "-qlanglvl=extended0x"
	default:
		if language == LanguageC {
			return "-std=c99"
		}
		return "-std=c++11"
	}
}

// SharedFlags returns the flags that make the vendor emit a shared
// library.
func (v Vendor) SharedFlags() string {
	switch v {
	case VendorNVHPC:
		return "-fpic -shlib"
	case VendorIBM:
		return "-qpic -shared"
	case VendorCray:
		return "-h PIC -shared"
	case VendorMSVC:
		return "/LD"
	default:
		return "-fPIC -shared"
	}
}
