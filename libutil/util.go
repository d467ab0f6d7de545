package libutil

const InvalidAddress uintptr = 0xffff_ffff_ffff_ffff

type Deleter interface {
	Delete()
}

// DeleteAll deletes in reverse order of creation
func DeleteAll(objects []Deleter) {
	for i := len(objects) - 1; i >= 0; i-- {
		objects[i].Delete()
	}
}
