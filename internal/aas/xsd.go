// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package aas

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	integerRe  = regexp.MustCompile(`^[+-]?[0-9]+$`)
	decimalRe  = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)
	doubleRe   = regexp.MustCompile(`^([+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([Ee][+-]?[0-9]+)?|-?INF|NaN)$`)
	dateRe     = regexp.MustCompile(`^(-?)([1-9][0-9]{3,}|0[0-9]{3})-([0-9]{2})-([0-9]{2})(Z|[+-][0-9]{2}:[0-9]{2})?$`)
	dateTimeRe = regexp.MustCompile(`^(-?)([1-9][0-9]{3,}|0[0-9]{3})-([0-9]{2})-([0-9]{2})T([0-9]{2}):([0-9]{2}):([0-9]{2})(\.[0-9]+)?(Z|[+-][0-9]{2}:[0-9]{2})?$`)
	indexRe    = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)
)

var (
	minInt32 = big.NewInt(math.MinInt32)
	maxInt32 = big.NewInt(math.MaxInt32)
)

// ValueConsistent reports whether the text is a lexical representation of a
// value of the XSD value type. Unknown value types are never consistent.
func ValueConsistent(valueType, value string) bool {
	switch valueType {
	case "xs:anyURI":
		return isAnyURI(value)
	case "xs:boolean":
		return value == "true" || value == "false" || value == "1" || value == "0"
	case "xs:date":
		return isDate(value)
	case "xs:dateTime":
		return isDateTime(value)
	case "xs:decimal":
		return decimalRe.MatchString(value)
	case "xs:double":
		return isDouble(value)
	case "xs:int":
		return isInt(value)
	case "xs:integer":
		return integerRe.MatchString(value)
	case "xs:string":
		return isXMLString(value)
	default:
		return false
	}
}

// isXMLString checks that every character is allowed in an XML document.
func isXMLString(value string) bool {
	if !utf8.ValidString(value) {
		return false
	}
	for _, r := range value {
		switch {
		case r == 0x9 || r == 0xA || r == 0xD:
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}
	return true
}

// isAnyURI accepts IRI references: at most one fragment, well-formed percent
// encodings and none of the characters excluded from IRIs.
func isAnyURI(value string) bool {
	if !isXMLString(value) || strings.Count(value, "#") > 1 {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] != '%' {
			continue
		}
		if i+2 >= len(value) || !isHex(value[i+1]) || !isHex(value[i+2]) {
			return false
		}
	}
	for _, r := range value {
		if r < 0x20 || r == 0x7F || strings.ContainsRune(" <>\"{}|\\^`", r) {
			return false
		}
	}
	return true
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isDouble(value string) bool {
	if !doubleRe.MatchString(value) {
		return false
	}
	if value == "INF" || value == "-INF" || value == "NaN" {
		return true
	}
	f, _ := strconv.ParseFloat(value, 64)
	return !math.IsInf(f, 0)
}

func isInt(value string) bool {
	if !integerRe.MatchString(value) {
		return false
	}
	n, ok := new(big.Int).SetString(value, 10)
	return ok && n.Cmp(minInt32) >= 0 && n.Cmp(maxInt32) <= 0
}

func isDate(value string) bool {
	m := dateRe.FindStringSubmatch(value)
	if m == nil {
		return false
	}
	return validDay(m[1] == "-", m[2], m[3], m[4]) && validOffset(m[5])
}

func isDateTime(value string) bool {
	m := dateTimeRe.FindStringSubmatch(value)
	if m == nil {
		return false
	}
	if !validDay(m[1] == "-", m[2], m[3], m[4]) || !validOffset(m[9]) {
		return false
	}
	hour, minute, second := atoi(m[5]), atoi(m[6]), atoi(m[7])
	if hour == 24 {
		return minute == 0 && second == 0 && strings.Trim(m[8], ".0") == ""
	}
	return hour < 24 && minute < 60 && second < 60
}

// isDateTimeUtc accepts date-times with a zero offset only.
func isDateTimeUtc(value string) bool {
	if !isDateTime(value) {
		return false
	}
	return strings.HasSuffix(value, "Z") || strings.HasSuffix(value, "+00:00") || strings.HasSuffix(value, "-00:00")
}

// validDay checks the day of month. Negative years count before the common
// era, so -0001 is the year preceding 0001 and is a leap year.
func validDay(negative bool, yearText, monthText, dayText string) bool {
	year, ok := new(big.Int).SetString(yearText, 10)
	if !ok || year.Sign() == 0 {
		return false
	}
	if negative {
		year.Sub(year, big.NewInt(1))
	}
	month, day := atoi(monthText), atoi(dayText)
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= daysIn(month, isLeap(year))
}

func isLeap(year *big.Int) bool {
	divisible := func(n int64) bool {
		return new(big.Int).Mod(year, big.NewInt(n)).Sign() == 0
	}
	return divisible(4) && (!divisible(100) || divisible(400))
}

func daysIn(month int, leap bool) int {
	switch month {
	case 2:
		if leap {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// validOffset accepts an empty zone, "Z" and offsets up to 14 hours.
func validOffset(zone string) bool {
	if zone == "" || zone == "Z" {
		return true
	}
	hours, minutes := atoi(zone[1:3]), atoi(zone[4:6])
	if minutes >= 60 {
		return false
	}
	return hours < 14 || (hours == 14 && minutes == 0)
}

// atoi parses digits already matched by a pattern.
func atoi(digits string) int {
	n, _ := strconv.Atoi(digits)
	return n
}
