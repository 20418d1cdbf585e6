// entity/top_domains.go
package entity

import (
	"encoding/json"
	"time"
)

type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// VisitedDomain is the anonymized form of a visit kept in the archive.
type VisitedDomain struct {
	Domain    string    `json:"domain"`
	Category  Category  `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

// DomainCounts counts visits per domain and remembers first-seen order.
type DomainCounts struct {
	order  []string
	counts map[string]int
}

func NewDomainCounts() *DomainCounts {
	return &DomainCounts{counts: make(map[string]int)}
}

func (d *DomainCounts) Add(domain string) {
	d.AddN(domain, 1)
}

func (d *DomainCounts) AddN(domain string, n int) {
	if _, ok := d.counts[domain]; !ok {
		d.order = append(d.order, domain)
	}
	d.counts[domain] += n
}

func (d *DomainCounts) Count(domain string) int {
	return d.counts[domain]
}

func (d *DomainCounts) Len() int {
	return len(d.order)
}

// Entries returns the counts in first-seen order.
func (d *DomainCounts) Entries() []DomainCount {
	entries := make([]DomainCount, 0, len(d.order))
	for _, domain := range d.order {
		entries = append(entries, DomainCount{Domain: domain, Count: d.counts[domain]})
	}
	return entries
}

func (d *DomainCounts) Total() int {
	total := 0
	for _, c := range d.counts {
		total += c
	}
	return total
}

func (d *DomainCounts) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Entries())
}
