package file

import "os"

type OutModule struct {
	sink        *os.File
	batchBuffer *[]string
}
