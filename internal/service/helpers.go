package service

import "strconv"

func formatUserID(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}
