package healthplanet

import (
	"fmt"
	"strings"
)

// Tag identifies the kind of value a Measurement carries.
type Tag string

const (
	TagWeight             Tag = "6021"
	TagFatPercentage      Tag = "6022"
	TagMuscleMass         Tag = "6023"
	TagMuscleScore        Tag = "6024"
	TagVisceralFatLevel2  Tag = "6025"
	TagVisceralFatLevel   Tag = "6026"
	TagBasalMetabolicRate Tag = "6027"
	TagBodyAge            Tag = "6028"
	TagBoneMass           Tag = "6029"
)

var tagNames = map[Tag]string{
	TagWeight:             "体重",
	TagFatPercentage:      "体脂肪率",
	TagMuscleMass:         "筋肉量",
	TagMuscleScore:        "筋肉スコア",
	TagVisceralFatLevel2:  "内臓脂肪レベル2",
	TagVisceralFatLevel:   "内臓脂肪レベル",
	TagBasalMetabolicRate: "基礎代謝量",
	TagBodyAge:            "体内年齢",
	TagBoneMass:           "推定骨量",
}

// Label returns the Japanese display name of the tag, or the raw code for unknown tags.
func (t Tag) Label() string {
	name, ok := tagNames[t]
	if !ok {
		return string(t)
	}
	return name
}

// ParseTag accepts either a numeric innerscan tag code or its display name.
func ParseTag(s string) (Tag, error) {
	s = strings.TrimSpace(s)
	if _, ok := tagNames[Tag(s)]; ok {
		return Tag(s), nil
	}
	for tag, name := range tagNames {
		if name == s {
			return tag, nil
		}
	}
	return "", fmt.Errorf("unknown innerscan tag %q", s)
}

// DefaultTags is the tag filter sent when none is configured.
var DefaultTags = []Tag{TagWeight, TagFatPercentage}

// Measurement is a single innerscan record, all fields are kept as the upstream strings.
type Measurement struct {
	// Date is formatted YYYYMMDDHHMM.
	Date    string `json:"date"`
	Keydata string `json:"keydata"`
	Model   string `json:"model"`
	Tag     Tag    `json:"tag"`
}

type InnerscanResponse struct {
	BirthDate string        `json:"birth_date"`
	Height    string        `json:"height"`
	Sex       string        `json:"sex"`
	Data      []Measurement `json:"data"`
}

// Token is the response of the token exchange.
type Token struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// Credentials are the static values needed to go through the OAuth hand-off.
type Credentials struct {
	ClientId     string
	ClientSecret string
	UserId       string
	Password     string
	RedirectUri  string
}
