package domain

// Zero overwrites b with zeros. Every copy of raw key material is passed here once it is
// no longer needed.
func Zero(b []byte) {
	clear(b)
}
