package model

type Camera struct {
	Entity
	Username string `json:"username"`
	Password string `json:"-"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
}
