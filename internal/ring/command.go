package ring

// CommandOffset resolves a position inside a stored command to a logical
// offset. index is the command's ordinal among occupied slots, oldest first;
// intra must fall inside that command.
func (r *Ring) CommandOffset(index, intra int) (int64, error) {
	rec, err := r.At(index)
	if err != nil {
		return 0, ErrInvalidArgument
	}
	if intra < 0 || intra >= rec.Len() {
		return 0, ErrInvalidArgument
	}

	var off int64
	for i := 0; i < index; i++ {
		off += int64(r.slot(i).Len())
	}
	return off + int64(intra), nil
}
