package membership

// View is the JSON shape of a membership.
type View struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

func (m Membership) View() View {
	return View{ID: m.TenantID, Slug: m.TenantSlug, Name: m.TenantName, Role: m.Role, Status: m.Status}
}

// Views converts a list, never returning nil.
func Views(ms []Membership) []View {
	out := make([]View, len(ms))
	for i, m := range ms {
		out[i] = m.View()
	}
	return out
}
