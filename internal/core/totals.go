package core

// Totals are the per-category sums and the running balance for a report
// period. Foreign donations are summed at face value, deliberately
// without currency conversion.
type Totals struct {
	Donations Money `json:"donations"`
	Expenses  Money `json:"expenses"`
	Foreign   Money `json:"foreign"`
	Balance   Money `json:"balance"`
}

// SumRecords adds the amounts of a record collection. An empty
// collection sums to zero.
func SumRecords(records []Record) Money {
	var total Money
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

func SumExpenses(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

func SumForeignDonations(donations []ForeignDonation) Money {
	var total Money
	for _, d := range donations {
		total = total.Add(d.Amount)
	}
	return total
}

// ComputeTotals sums the three collections and derives the balance:
// donations minus expenses plus foreign donations.
func ComputeTotals(records []Record, expenses []Expense, foreign []ForeignDonation) Totals {
	t := Totals{
		Donations: SumRecords(records),
		Expenses:  SumExpenses(expenses),
		Foreign:   SumForeignDonations(foreign),
	}
	t.Balance = t.Donations.Sub(t.Expenses).Add(t.Foreign)
	return t
}
