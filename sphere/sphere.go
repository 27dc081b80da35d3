package sphere

import "geof/geom"

// Sphere is the immutable topology record of one subdivided sphere: the
// division count and the centroid of every field, indexed by flattened
// field index. Panel assignment and field data live with the engine; the
// Sphere itself never changes after New.
type Sphere struct {
	Divisions int
	Centroids []geom.Vec3
}

// New builds the sphere record for the given division count.
func New(divisions int) (*Sphere, error) {
	if divisions < 1 {
		return nil, ErrInvalidDivisions
	}
	s := &Sphere{
		Divisions: divisions,
		Centroids: make([]geom.Vec3, FieldCount(divisions)),
	}
	ForAllFields(divisions, func(idx Index) {
		s.Centroids[Flatten(idx, divisions)] = Centroid(idx, divisions)
	})
	return s, nil
}

// FieldCount returns the number of fields on this sphere.
func (s *Sphere) FieldCount() int {
	return FieldCount(s.Divisions)
}

// Flatten maps a field index into [0, FieldCount()).
func (s *Sphere) Flatten(idx Index) int {
	return Flatten(idx, s.Divisions)
}

// Unflatten is the inverse of Flatten.
func (s *Sphere) Unflatten(flat int) Index {
	return Unflatten(flat, s.Divisions)
}

// Adjacents returns the neighbours of idx.
func (s *Sphere) Adjacents(idx Index) Adjacents {
	return AdjacentsOf(idx, s.Divisions)
}

// CentroidOf returns the centroid of the field with the given flattened
// index.
func (s *Sphere) CentroidOf(flat int) geom.Vec3 {
	return s.Centroids[flat]
}
