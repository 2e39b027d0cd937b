package models

// Observation is one raw StatCan price record as stored in the
// observations collection. Uniquely keyed by (REF_DATE, GEO, Products);
// the field names mirror the source table so downstream consumers of the
// collection keep working.
type Observation struct {
	RefDate string   `bson:"REF_DATE" json:"refDate"`
	Geo     string   `bson:"GEO" json:"geo"`
	Product string   `bson:"Products" json:"product"`
	Vector  string   `bson:"VECTOR,omitempty" json:"vector,omitempty"`
	Value   *float64 `bson:"VALUE" json:"value"`
}

// Series is the ascending REF_DATE-ordered observations for one
// (geography, product) pair.
type Series []Observation
