package normalize

import (
	"strings"
	"unicode"
)

// Circle codes used by the dashboard.
const (
	CircleAP  = "AP"
	CircleASM = "ASM"
	CircleBIH = "BIH"
	CircleDEL = "DEL"
	CircleGUJ = "GUJ"
	CircleHAR = "HAR"
	CircleHP  = "HP"
	CircleJK  = "JK"
	CircleKAR = "KAR"
	CircleKER = "KER"
	CircleKOL = "KOL"
	CircleMAH = "MAH"
	CircleMP  = "MP"
	CircleMum = "Mum"
	CircleNE  = "NE"
	CircleORI = "ORI"
	CirclePUN = "PUN"
	CircleRAJ = "RAJ"
	CircleTN  = "TN"
	CircleUPE = "UPE"
	CircleUPW = "UPW"
	CircleWB  = "WB"
)

// Circles lists every known circle code.
var Circles = []string{
	CircleAP, CircleASM, CircleBIH, CircleDEL, CircleGUJ, CircleHAR,
	CircleHP, CircleJK, CircleKAR, CircleKER, CircleKOL, CircleMAH,
	CircleMP, CircleMum, CircleNE, CircleORI, CirclePUN, CircleRAJ,
	CircleTN, CircleUPE, CircleUPW, CircleWB,
}

// circleAliases is keyed by circleKey output.
var circleAliases = map[string]string{
	"andhra pradesh":                  CircleAP,
	"andhra pradesh and telangana":    CircleAP,
	"ap and telangana":                CircleAP,
	"telangana":                       CircleAP,
	"hyderabad":                       CircleAP,
	"assam":                           CircleASM,
	"bihar":                           CircleBIH,
	"jharkhand":                       CircleBIH,
	"bihar and jharkhand":             CircleBIH,
	"delhi":                           CircleDEL,
	"new delhi":                       CircleDEL,
	"ncr":                             CircleDEL,
	"delhi ncr":                       CircleDEL,
	"delhi and ncr":                   CircleDEL,
	"gujarat":                         CircleGUJ,
	"haryana":                         CircleHAR,
	"himachal":                        CircleHP,
	"himachal pradesh":                CircleHP,
	"jammu and kashmir":               CircleJK,
	"j and k":                         CircleJK,
	"j k":                             CircleJK,
	"karnataka":                       CircleKAR,
	"bangalore":                       CircleKAR,
	"bengaluru":                       CircleKAR,
	"kerala":                          CircleKER,
	"kolkata":                         CircleKOL,
	"calcutta":                        CircleKOL,
	"maharashtra":                     CircleMAH,
	"maharashtra and goa":             CircleMAH,
	"rest of maharashtra":             CircleMAH,
	"goa":                             CircleMAH,
	"madhya pradesh":                  CircleMP,
	"chhattisgarh":                    CircleMP,
	"mp and cg":                       CircleMP,
	"madhya pradesh and chhattisgarh": CircleMP,
	"mumbai":                          CircleMum,
	"bombay":                          CircleMum,
	"north east":                      CircleNE,
	"northeast":                       CircleNE,
	"odisha":                          CircleORI,
	"orissa":                          CircleORI,
	"punjab":                          CirclePUN,
	"rajasthan":                       CircleRAJ,
	"tamil nadu":                      CircleTN,
	"tamilnadu":                       CircleTN,
	"chennai":                         CircleTN,
	"up east":                         CircleUPE,
	"uttar pradesh east":              CircleUPE,
	"up west":                         CircleUPW,
	"uttar pradesh west":              CircleUPW,
	"uttarakhand":                     CircleUPW,
	"west bengal":                     CircleWB,
}

var circleCodes = func() map[string]string {
	m := make(map[string]string, len(Circles))
	for _, c := range Circles {
		m[strings.ToLower(c)] = c
	}
	return m
}()

// CircleCode maps a free-text region name to its circle code. Input that
// matches no alias or code is returned trimmed but otherwise unchanged.
func CircleCode(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	key := circleKey(trimmed)
	if code, ok := circleAliases[key]; ok {
		return code
	}
	if code, ok := circleCodes[strings.ReplaceAll(key, " ", "")]; ok {
		return code
	}
	return trimmed
}

// circleKey lower-cases, spells "&" as "and" and turns punctuation into spaces.
func circleKey(s string) string {
	s = strings.ReplaceAll(Key(s), "&", " and ")
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
