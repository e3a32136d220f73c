package identity

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DenyList holds the known non-identity tab names. It is configuration data,
// not derived data: venues add seating labels and placeholder habits of their
// own, so the list lives in a YAML asset and can change without a deploy.
type DenyList struct {
	exact      map[string]struct{}
	substrings []string
	suffixes   []string
}

// NewDenyList builds a deny list from its three rule classes: exact matches,
// substrings matched anywhere, and trailing-token suffixes (vehicle nouns).
func NewDenyList(exact, substrings, suffixes []string) *DenyList {
	d := &DenyList{
		exact:      make(map[string]struct{}, len(exact)),
		substrings: append([]string(nil), substrings...),
		suffixes:   append([]string(nil), suffixes...),
	}
	for _, name := range exact {
		d.exact[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	return d
}

// LoadDenyList reads the deny-list asset from a YAML file.
func LoadDenyList(path string) (*DenyList, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read deny list %s: %w", path, err)
	}
	return NewDenyList(
		v.GetStringSlice("names"),
		v.GetStringSlice("substrings"),
		v.GetStringSlice("vehicle_suffixes"),
	), nil
}

// Blocked reports whether a cleaned (digit-stripped, lowercased) tab name is
// a known non-identity string. Empty names are not blocked; they are already
// blank.
func (d *DenyList) Blocked(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := d.exact[name]; ok {
		return true
	}
	for _, sub := range d.substrings {
		if strings.Contains(name, sub) {
			return true
		}
	}
	for _, suffix := range d.suffixes {
		if strings.HasSuffix(name, " "+suffix) {
			return true
		}
	}
	return false
}

// DefaultDenyList mirrors configs/denylist.yaml so the pipeline works without
// the asset on disk (tests, ad-hoc runs).
func DefaultDenyList() *DenyList {
	return NewDenyList(defaultNames, defaultSubstrings, defaultSuffixes)
}

var defaultSubstrings = []string{"uber-", "postmates-"}

var defaultSuffixes = []string{"suv", "car", "truck", "van", "jeep"}

var defaultNames = []string{
	"to go", "beer", "guest", "visa cardholder", "togo", "tg", "bar",
	"front door togo", "cardholder, visa", "togo front door", "tgo",
	"table", "end", "corner", "west garnish", "east", "west", "bar &",
	"ice", "mid", "buff tap", "west tap", "east tap", "tap mid",
	"west buff", "tap", "@bar", "west buff tap", "west end", "east end",
	"bar -", "band", "bandband", "to go!!!", "vip", "ciliac",
	"celiac seat", "dairy free seat", "celiac", "sax player",
	"valued customer", "#", "cardmember, discover", "catering",
	"discover cardmember", "chase visa cardholder", "walk in", "customer",
	"customer.", `n\a`, "customer,", "employee", "-", "out", "walk-in",
	"stage", "taps", "game", "right end", "gameroon", "right pole",
	"left pole", "bhnd", "bhind", "dish", "end left", "bhnd lft",
	"gameroom", "mid bar", "behind", "car", "truck", "suv", "white",
	"black", "silver", "red", ".", "jeep", "blue", "?", ":)", "no name",
	"??", "van", "the band", "bday", "wedding open tab", "guy", "guys",
	"girl", "lady", "girls", "ladies", "couple", "go", "reg", "guy end",
	"to go at table", "not paid",
}
