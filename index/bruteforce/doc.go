// Package bruteforce provides an exhaustive cosine kNN index. It is the
// exact baseline other indexes are checked against.
package bruteforce
