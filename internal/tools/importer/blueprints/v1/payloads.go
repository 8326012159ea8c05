package blueprintimporter

// payload is the envelope shared by every pack file.
type payload[T any] struct {
	SystemID      string `json:"system_id"`
	SystemVersion string `json:"system_version"`
	Source        string `json:"source"`
	Locale        string `json:"locale"`
	Items         []T    `json:"items"`
}

type abilityRecord struct {
	GUID        string `json:"guid"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Range       string `json:"range"`
	Description string `json:"description"`
	Parent      string `json:"parent,omitempty"`
}

type activatableRecord struct {
	GUID                  string `json:"guid"`
	Name                  string `json:"name"`
	Group                 string `json:"group"`
	DeactivateImmediately bool   `json:"deactivate_immediately"`
	Description           string `json:"description"`
}

type itemRecord struct {
	GUID         string   `json:"guid"`
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	Cost         int      `json:"cost"`
	Weight       float64  `json:"weight"`
	Enchantments []string `json:"enchantments"`
}

type enchantmentRecord struct {
	GUID            string `json:"guid"`
	Name            string `json:"name"`
	EnchantmentCost int    `json:"enchantment_cost"`
	Prefix          string `json:"prefix"`
	Suffix          string `json:"suffix"`
}

type featureRecord struct {
	GUID   string   `json:"guid"`
	Name   string   `json:"name"`
	Groups []string `json:"groups"`
}

type unitRecord struct {
	GUID            string `json:"guid"`
	Name            string `json:"name"`
	ChallengeRating int    `json:"challenge_rating"`
}

type packPayloads struct {
	Abilities    *payload[abilityRecord]
	Activatables *payload[activatableRecord]
	Items        *payload[itemRecord]
	Enchantments *payload[enchantmentRecord]
	Features     *payload[featureRecord]
	Units        *payload[unitRecord]
}

// header is the envelope of one payload without its items.
type header struct {
	file          string
	systemID      string
	systemVersion string
	source        string
	locale        string
}

func headerOf[T any](file string, p *payload[T]) header {
	return header{
		file:          file,
		systemID:      p.SystemID,
		systemVersion: p.SystemVersion,
		source:        p.Source,
		locale:        p.Locale,
	}
}

// headers returns the envelopes of every payload present in the pack.
func (p packPayloads) headers() []header {
	var out []header
	if p.Abilities != nil {
		out = append(out, headerOf(fileAbilities, p.Abilities))
	}
	if p.Activatables != nil {
		out = append(out, headerOf(fileActivatables, p.Activatables))
	}
	if p.Items != nil {
		out = append(out, headerOf(fileItems, p.Items))
	}
	if p.Enchantments != nil {
		out = append(out, headerOf(fileEnchantments, p.Enchantments))
	}
	if p.Features != nil {
		out = append(out, headerOf(fileFeatures, p.Features))
	}
	if p.Units != nil {
		out = append(out, headerOf(fileUnits, p.Units))
	}
	return out
}
