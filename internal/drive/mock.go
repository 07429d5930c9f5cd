package drive

// MockMotors records every duty pair it is handed. Used by the
// simulator and the loop tests.
type MockMotors struct {
	Left    int
	Right   int
	History [][2]int
}

func (m *MockMotors) SetDuty(left, right int) error {
	m.Left, m.Right = left, right
	m.History = append(m.History, [2]int{left, right})
	return nil
}
