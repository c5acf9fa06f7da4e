package links

const ResourceLink = "link"

const (
	OpCreate = "create"
	OpGet    = "get"
	OpGetAll = "getAll"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Fields Linkly accepts on create and update besides url.
var Fields = []string{
	"name", "note", "domain", "slug", "enabled",
	"block_bots", "body_tags", "head_tags", "cloaking",
	"expiry_datetime", "expiry_destination", "forward_params",
	"ga4_tag_id", "gtm_id", "fb_pixel_id", "hide_referrer",
	"linkify_words", "og_title", "og_description", "og_image",
	"public_analytics", "replacements", "skip_social_crawler_tracking",
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
}

// Params are the per-item parameters of a batch execution.
type Params struct {
	LinkID           int64          `json:"linkId,omitempty"`
	URL              string         `json:"url,omitempty"`
	AdditionalFields map[string]any `json:"additionalFields,omitempty"`
	UpdateFields     map[string]any `json:"updateFields,omitempty"`
}

// OutputItem is one result row, paired with the index of the input item
// that produced it.
type OutputItem struct {
	JSON       map[string]any `json:"json"`
	PairedItem int            `json:"pairedItem"`
}

// Option is a selectable link for pickers.
type Option struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}
