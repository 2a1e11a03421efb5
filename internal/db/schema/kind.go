package schema

// Kind identifies one dimension type and the tables backing it. Kinds with an
// empty alias table resolve by exact match only.
type Kind struct {
	Name       string // short name used in logs and diagnostics
	Table      string // dimension table
	AliasTable string // alias table, empty for exact-match kinds
}

// HasAlias reports whether the kind learns aliases.
func (k Kind) HasAlias() bool { return k.AliasTable != "" }

var (
	KindExhibitor      = Kind{Name: "exhibitor", Table: "dim_exhibitor", AliasTable: "map_exhibitor_alias"}
	KindMedia          = Kind{Name: "media", Table: "dim_media", AliasTable: "map_media_alias"}
	KindCampaign       = Kind{Name: "campaign", Table: "dim_campaign", AliasTable: "map_campaign_alias"}
	KindTarget         = Kind{Name: "target", Table: "dim_target", AliasTable: "map_target_alias"}
	KindClassification = Kind{Name: "classification", Table: "dim_classification"}
	KindDisplayType    = Kind{Name: "display_type", Table: "dim_display_type"}
	KindClient         = Kind{Name: "client", Table: "dim_client"}
)

// Kinds lists every dimension kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindExhibitor,
		KindMedia,
		KindCampaign,
		KindTarget,
		KindClassification,
		KindDisplayType,
		KindClient,
	}
}
