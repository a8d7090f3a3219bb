// Package ktree implements a k-tree: a height-balanced tree of k-means
// clusters. Leaves hold the inserted vectors, internal nodes hold one
// count-weighted centroid per child, and a node that grows past the tree
// order is split in two with 2-means, the split propagating towards the root
// like in a B-tree.
//
// Vectors live in memory handed out by an Allocator that is passed explicitly
// to every mutating call, so a tree and its objects never depend on ambient
// allocation state.
package ktree
