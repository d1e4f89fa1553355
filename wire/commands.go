package wire

import "fmt"

// Encoders for the six outbound commands of spec.md §4.4. Each returns
// the exact bytes to write to the socket, matching the frame column of
// the outbound command table.

func Create(name, password string) []byte {
	return []byte(fmt.Sprintf("CREATE\nName:%s\nPassword:%s\n", name, password))
}

func Join(name, password string) []byte {
	return []byte(fmt.Sprintf("JOIN\nName:%s\nPassword:%s\n", name, password))
}

func Change(name, version, cell, content string) []byte {
	return []byte(fmt.Sprintf("CHANGE\nName:%s\nVersion:%s\nCell:%s\nLength:%d\n%s\n", name, version, cell, len(content), content))
}

func Undo(name, version string) []byte {
	return []byte(fmt.Sprintf("UNDO\nName:%s\nVersion:%s\n", name, version))
}

func Save(name string) []byte {
	return []byte(fmt.Sprintf("SAVE\nName:%s\n", name))
}

func Leave(name string) []byte {
	return []byte(fmt.Sprintf("LEAVE\nName:%s\n", name))
}
