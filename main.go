package main

import (
	"go.uber.org/fx"

	"recipebox/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
