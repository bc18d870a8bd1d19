package model

// Practice is one row of the practice directory.
type Practice struct {
	Code     string
	Name     string
	Addr1    string
	Addr2    string
	Borough  string
	Village  string
	PostCode string
}

// PracticeColumns is the fixed column order of the practice directory, which
// ships without a header row.
var PracticeColumns = []string{"code", "name", "addr_1", "addr_2", "borough", "village", "post_code"}

// Values returns the fields in PracticeColumns order.
func (p *Practice) Values() []string {
	return []string{p.Code, p.Name, p.Addr1, p.Addr2, p.Borough, p.Village, p.PostCode}
}
