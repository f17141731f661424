package database

// Model is implemented by all objects that can be persisted. The object ID
// must be unique within the class and must not change once archived.
type Model interface {
	ObjectID() string
	SetObjectID(id string)
}

// DatabasePather is implemented by models that define the database
// location of their class themselves. It takes precedence over all
// configured paths. The location must not change once data was written.
type DatabasePather interface {
	DatabasePath() string
}

// Base provides an embeddable implementation of Model.
type Base struct {
	ID string `json:"id"`
}

// ObjectID returns the object ID.
func (b *Base) ObjectID() string {
	return b.ID
}

// SetObjectID sets the object ID.
func (b *Base) SetObjectID(id string) {
	b.ID = id
}
