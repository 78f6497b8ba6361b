package domain

// Owner 账户持有人
type Owner struct {
	Name     string `json:"name"`
	Document string `json:"document"`
}

// Equals 持有人相等
func (o Owner) Equals(other Owner) bool {
	return o.Name == other.Name && o.Document == other.Document
}
