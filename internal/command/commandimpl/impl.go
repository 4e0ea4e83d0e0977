package commandimpl

import (
	"time"

	"github.com/orgball2608/insta-downloader/internal/command"
	"github.com/orgball2608/insta-downloader/internal/instagram"
	"github.com/orgball2608/insta-downloader/internal/telegram"
	"github.com/orgball2608/insta-downloader/pkg/config"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	"go.uber.org/fx"
)

const extractTimeout = 2 * time.Minute

type Opts struct {
	fx.In

	Instagram instagram.Client
	Telegram  telegram.Client
	Logger    logger.Logger
	Config    *config.Config
}

type CommandImpl struct {
	Instagram instagram.Client
	Telegram  telegram.Client
	Logger    logger.Logger
	Config    *config.Config
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Instagram: opts.Instagram,
		Telegram:  opts.Telegram,
		Logger:    opts.Logger,
		Config:    opts.Config,
	}
}

var _ command.Client = (*CommandImpl)(nil)
