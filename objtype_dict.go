package moltcl

// DictType is the internal representation for dictionary values: an
// ordered mapping from string keys to Obj values. Its string form is a
// flat, even-length list (spec §3).
type DictType struct {
	Items map[string]*Obj
	Order []string
}

func (t *DictType) Name() string { return "dict" }

func (t *DictType) Dup() ObjType {
	items := make(map[string]*Obj, len(t.Items))
	for k, v := range t.Items {
		items[k] = v
	}
	order := make([]string, len(t.Order))
	copy(order, t.Order)
	return &DictType{Items: items, Order: order}
}

func (t *DictType) UpdateString() string {
	strs := make([]string, 0, len(t.Order)*2)
	for _, key := range t.Order {
		strs = append(strs, key, t.Items[key].String())
	}
	return FormatList(strs)
}

func (t *DictType) IntoDict() (map[string]*Obj, []string, bool) {
	return t.Items, t.Order, true
}

func (t *DictType) IntoList() ([]*Obj, bool) {
	list := make([]*Obj, 0, len(t.Order)*2)
	for _, k := range t.Order {
		list = append(list, NewString(k), t.Items[k])
	}
	return list, true
}

// Get returns the value for key and whether it was present.
func (t *DictType) Get(key string) (*Obj, bool) {
	v, ok := t.Items[key]
	return v, ok
}

// Set stores value under key, appending key to Order if it is new.
func (t *DictType) Set(key string, value *Obj) {
	if _, exists := t.Items[key]; !exists {
		t.Order = append(t.Order, key)
	}
	t.Items[key] = value
}

// Delete removes key, if present, preserving the order of the rest.
func (t *DictType) Delete(key string) {
	if _, exists := t.Items[key]; !exists {
		return
	}
	delete(t.Items, key)
	for i, k := range t.Order {
		if k == key {
			t.Order = append(t.Order[:i], t.Order[i+1:]...)
			break
		}
	}
}
