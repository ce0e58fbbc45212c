package node

import "fmt"

// Table is an index-stable arena of records. Records are appended and never removed
// because outline cells and change log tokens address them by index.
type Table struct {
	records []Record
	keys    map[string]int
}

// NewTable returns a table holding only the hidden root record at index 0.
func NewTable() *Table {
	t := &Table{keys: make(map[string]int)}
	t.Append(NewRecord(RootKey, RootHeading))
	return t
}

func (t *Table) Len() int {
	return len(t.records)
}

// Append stores the record and returns its index. Keys must be unique.
func (t *Table) Append(r Record) int {
	if _, exists := t.keys[r.Key]; exists {
		panic(fmt.Sprintf("duplicate content key %q", r.Key))
	}
	t.records = append(t.records, r)
	t.keys[r.Key] = len(t.records) - 1
	return len(t.records) - 1
}

// Intern returns the index for key, appending a fresh record if the key is unknown.
func (t *Table) Intern(key string, heading string) (index int, created bool) {
	if i, exists := t.keys[key]; exists {
		return i, false
	}
	return t.Append(NewRecord(key, heading)), true
}

func (t *Table) Find(key string) (int, bool) {
	i, exists := t.keys[key]
	return i, exists
}

func (t *Table) Has(index int) bool {
	return index >= 0 && index < len(t.records)
}

func (t *Table) Record(index int) Record {
	return t.records[index]
}

func (t *Table) Key(index int) string {
	return t.records[index].Key
}

func (t *Table) Heading(index int) string {
	return t.records[index].Heading
}

func (t *Table) Body(index int) string {
	return t.records[index].Body
}

func (t *Table) SetHeading(index int, heading string) {
	t.records[index].Heading = heading
}

func (t *Table) SetBody(index int, body string) {
	t.records[index].Body = body
}

// KeyIndex maps every content key to its index.
func (t *Table) KeyIndex() map[string]int {
	index := make(map[string]int, len(t.keys))
	for k, i := range t.keys {
		index[k] = i
	}
	return index
}

func (t *Table) Clone() *Table {
	c := &Table{records: make([]Record, len(t.records)), keys: t.KeyIndex()}
	copy(c.records, t.records)
	return c
}

// Records returns a copy of all records in index order.
func (t *Table) Records() []Record {
	all := make([]Record, len(t.records))
	copy(all, t.records)
	return all
}

// FromRecords rebuilds a table, e.g. after deserialization. Record 0 must be the root.
func FromRecords(records []Record) (*Table, error) {
	if len(records) == 0 || records[0].Key != RootKey {
		return nil, fmt.Errorf("first record must carry key %q", RootKey)
	}
	t := &Table{keys: make(map[string]int, len(records))}
	for i, r := range records {
		if _, exists := t.keys[r.Key]; exists {
			return nil, fmt.Errorf("duplicate content key %q at index %d", r.Key, i)
		}
		t.records = append(t.records, r)
		t.keys[r.Key] = i
	}
	return t, nil
}
