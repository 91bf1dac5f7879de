package form

import "github.com/rodrigoasouza93/cep-form/internal/dto"

// Fields are the six editable inputs of the address form.
type Fields struct {
	PostalCode string
	Street     string
	City       string
	District   string
	StateCode  string
	AreaCode   string
}

// AddressRecord is the address data carried by a lookup payload.
type AddressRecord struct {
	Street    string
	City      string
	District  string
	StateCode string
	AreaCode  string
}

// NewAddressRecord maps a ViaCEP payload. A missing ddd becomes "".
func NewAddressRecord(location dto.LocationResponse) AddressRecord {
	return AddressRecord{
		Street:    location.Street,
		City:      location.Locale,
		District:  location.District,
		StateCode: location.State,
		AreaCode:  location.AreaCode,
	}
}

// fill copies the record into the dependent fields. The postal code field
// keeps what the user typed.
func (f *Fields) fill(r AddressRecord) {
	f.Street = r.Street
	f.City = r.City
	f.District = r.District
	f.StateCode = r.StateCode
	f.AreaCode = r.AreaCode
}

func (f *Fields) reset() {
	*f = Fields{}
}
