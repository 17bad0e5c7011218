package lifecycle

// BulkItem is the result of one salary inside a bulk pay.
type BulkItem struct {
	ID       int64
	Employee string
	Paid     bool
	Reason   string // set when Paid is false
}

// BulkOutcome reports per-id results of a bulk pay, in the order the rows
// were selected. A partial failure is data to render, not an error to
// escalate: the caller decides how to present the split.
type BulkOutcome struct {
	Items []BulkItem
}

// Paid returns how many items were paid.
func (o BulkOutcome) Paid() int {
	n := 0
	for _, it := range o.Items {
		if it.Paid {
			n++
		}
	}
	return n
}

// Failed returns how many items were not paid.
func (o BulkOutcome) Failed() int {
	return len(o.Items) - o.Paid()
}

// AllPaid reports whether every item went through.
func (o BulkOutcome) AllPaid() bool {
	return o.Failed() == 0
}
