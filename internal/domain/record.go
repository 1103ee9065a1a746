package domain

func (i Item) RecordID() string     { return i.ID }
func (o Order) RecordID() string    { return o.ID }
func (p Party) RecordID() string    { return p.ID }
func (s Settings) RecordID() string { return s.ID }
