// Package contrast builds the hypothesis contrasts: C over the
// between-participant cells (row form) and U over the repeated-measures
// cells and responses (column form).
//
// Factors are given in the same order as the cell-means columns of the
// design matrix; the last factor varies fastest.
package contrast
