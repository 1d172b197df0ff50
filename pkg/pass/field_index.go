package pass

// locator is the stable position of a field inside the pass style.
type locator struct {
	group GroupKind
	pos   int
}

// buildIndex maps every field key to its locator. Keys are unique once the
// pass has been validated, so the map is a bijection.
func buildIndex(s *styleFields) map[string]locator {
	index := make(map[string]locator)
	if s == nil {
		return index
	}
	for _, kind := range Groups {
		for i, f := range *s.group(kind) {
			index[f.Key] = locator{group: kind, pos: i}
		}
	}
	return index
}

func (p *Pass) field(key string) (*Field, bool) {
	loc, ok := p.index[key]
	if !ok {
		return nil, false
	}
	fields := *p.doc.fields(p.style).group(loc.group)
	return &fields[loc.pos], true
}

// GetValue returns the value of the field with the given key.
func (p *Pass) GetValue(key string) (Value, bool) {
	f, ok := p.field(key)
	if !ok {
		return Value{}, false
	}
	return f.Value, true
}

// Field returns a copy of the field with the given key.
func (p *Pass) Field(key string) (Field, bool) {
	f, ok := p.field(key)
	if !ok {
		return Field{}, false
	}
	return f.clone(), true
}

// SetValue replaces the value of the field with the given key. The field keeps
// its position in its group.
//
// It returns a *LookupError if no field has the key, and an invalid_value
// error if the field cannot hold v. The pass is unchanged on error.
func (p *Pass) SetValue(key string, v Value) error {
	f, ok := p.field(key)
	if !ok {
		return &LookupError{Key: key}
	}
	if err := v.check(f); err != nil {
		return err
	}
	f.Value = v
	return nil
}

// Keys returns the field keys in display order.
func (p *Pass) Keys() []string {
	keys := make([]string, 0, len(p.index))
	s := p.doc.fields(p.style)
	for _, kind := range Groups {
		for _, f := range *s.group(kind) {
			keys = append(keys, f.Key)
		}
	}
	return keys
}
