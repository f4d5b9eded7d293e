package domain

// Review is a customer review. Submitted reviews are forwarded to the
// owner for curation; only approved reviews are ever served back.
type Review struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Rating  int    `json:"rating"`
	Trailer string `json:"trailer,omitempty"`
	Review  string `json:"review"`
	Date    string `json:"date,omitempty"`
}

// MissingFields returns the names of required review fields that are absent
func (r *Review) MissingFields() []string {
	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.Email == "" {
		missing = append(missing, "email")
	}
	if r.Rating == 0 {
		missing = append(missing, "rating")
	}
	if r.Review == "" {
		missing = append(missing, "review")
	}
	return missing
}
