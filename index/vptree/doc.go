// Package vptree provides a vantage-point tree for exact cosine kNN search.
// Vectors are normalized so that Euclidean distance, a true metric, orders
// neighbours the same way cosine similarity does and triangle-inequality
// pruning never drops a true neighbour.
package vptree
