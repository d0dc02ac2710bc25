package tool

import "strconv"

func StrToInt(str string) int {
	data, _ := strconv.Atoi(str)
	return data
}
