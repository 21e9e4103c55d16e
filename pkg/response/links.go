package response

// Link is a navigational action affordance attached to resource payloads.
type Link struct {
	Rel    string   `json:"rel"`
	Href   string   `json:"href"`
	Action string   `json:"action"`
	Types  []string `json:"types"`
}

var jsonTypes = []string{"application/json"}

// ResourceLinks builds the standard affordance set for a resource: create on
// the collection path, then get/put/delete on the detail path.
func ResourceLinks(listPath, detailPath string) []Link {
	return []Link{
		{Rel: "self", Href: listPath, Action: "POST", Types: jsonTypes},
		{Rel: "self", Href: detailPath, Action: "GET", Types: jsonTypes},
		{Rel: "self", Href: detailPath, Action: "PUT", Types: jsonTypes},
		{Rel: "self", Href: detailPath, Action: "DELETE", Types: jsonTypes},
	}
}
