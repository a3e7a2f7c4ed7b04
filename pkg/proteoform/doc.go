// Package proteoform enumerates the cysteine redox proteoforms of a protein.
//
// A protein with N cysteines has 2^N proteoforms: every binary vector of
// length N, where 1 marks an oxidised site. Proteoforms are grouped by
// oxidation count k (the Hamming weight); group k holds C(N, k) members.
//
// Ordering
//
// Groups are produced in increasing k. Within a group, the oxidised site
// indices follow lexicographic order of k-combinations, so N=3 yields
//
//	k=0: 000
//	k=1: 100 010 001
//	k=2: 110 101 011
//	k=3: 111
//
// Cost
//
// Enumeration is O(N * 2^N) in time. Generate and Matrix also hold all 2^N
// vectors in memory. Callers must keep N small (N around 20 already means a
// million proteoforms) or use the streaming Enumerator together with
// WithMaxProteoforms or a context deadline to bound the work. Count and
// GroupSizes only compute binomial coefficients and are safe for any N that
// fits their result type.
package proteoform
