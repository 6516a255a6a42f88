package model

// CustomerField names one editable field of a CustomerProfile.
type CustomerField string

const (
	FieldStoreName     CustomerField = "storeName"
	FieldLocation      CustomerField = "location"
	FieldCustomerName  CustomerField = "customerName"
	FieldContactPerson CustomerField = "contactPerson"
	FieldDeliveryDate  CustomerField = "deliveryDate"
	FieldReceivingTime CustomerField = "receivingTime"
	FieldRemarks       CustomerField = "remarks"
)

// RequiredCustomerFields must all be non-blank before an order can be submitted.
var RequiredCustomerFields = []CustomerField{
	FieldStoreName,
	FieldLocation,
	FieldCustomerName,
	FieldContactPerson,
	FieldDeliveryDate,
}

// Attachment is a file the customer attached to the order, typically a photo.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

// Size returns the attachment size in bytes.
func (a *Attachment) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}

// CustomerProfile holds the buyer and delivery details of the order in progress.
type CustomerProfile struct {
	StoreName     string      `json:"storeName"`
	Location      string      `json:"location"`
	CustomerName  string      `json:"customerName"`
	ContactPerson string      `json:"contactPerson"`
	DeliveryDate  string      `json:"deliveryDate"`
	ReceivingTime string      `json:"receivingTime,omitempty"`
	Remarks       string      `json:"remarks,omitempty"`
	Attachment    *Attachment `json:"attachment,omitempty"`
}

// Get returns the value of a text field.
func (p CustomerProfile) Get(field CustomerField) (string, bool) {
	switch field {
	case FieldStoreName:
		return p.StoreName, true
	case FieldLocation:
		return p.Location, true
	case FieldCustomerName:
		return p.CustomerName, true
	case FieldContactPerson:
		return p.ContactPerson, true
	case FieldDeliveryDate:
		return p.DeliveryDate, true
	case FieldReceivingTime:
		return p.ReceivingTime, true
	case FieldRemarks:
		return p.Remarks, true
	default:
		return "", false
	}
}
