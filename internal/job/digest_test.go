package job

import (
	"encoding/json"
	"errors"
	"marketdigest/internal/model"
	"marketdigest/pkg/llm"
	"marketdigest/pkg/mail"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	sender    = mail.Address{Email: "digest@example.com", Name: "Market Digest"}
	recipient = mail.Address{Email: "reader@example.com", Name: "Reader"}
)

func digestFixtures() ([]model.PriceRecord, []model.NewsSummary) {
	base := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	prices := make([]model.PriceRecord, 10)
	for i := range prices {
		prices[i] = model.PriceRecord{
			ID:         int64(100 - i),
			Price:      decimal.NewFromInt(65000).Sub(decimal.NewFromInt(int64(i * 10))),
			RecordedAt: base.Add(-time.Duration(i) * time.Hour),
		}
	}
	summaries := []model.NewsSummary{
		{ID: 8, Category: model.CategoryMacro, SummaryText: "Rates unchanged.", RecordedAt: base},
		{ID: 7, Category: model.CategoryCrypto, SummaryText: "ETF inflows rose.", RecordedAt: base},
	}
	return prices, summaries
}

func TestDigestMailerSendsContextOfReadRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	generator := NewMockGenerator(ctrl)
	mailer := NewMockSender(ctrl)

	prices, summaries := digestFixtures()
	priceStore := &fakePriceStore{latest: prices}
	summaryStore := &fakeSummaryStore{latest: summaries}

	var prompt string
	generator.EXPECT().
		Generate(gomock.Any(), gomock.Any(), llm.DigestSampling).
		DoAndReturn(func(_ any, p string, _ llm.Sampling) (string, error) {
			prompt = p
			return "Subject: BTC holds 65k\n\nBitcoin traded flat.\nWatch 64k.", nil
		})

	var sent mail.Message
	mailer.EXPECT().Name().Return("mailjet").AnyTimes()
	mailer.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, msg mail.Message) error {
			sent = msg
			return nil
		}).
		Times(1)

	job := NewDigestMailer(priceStore, summaryStore, generator, mailer, sender, recipient)
	require.NoError(t, job.Run(t.Context()))

	require.Equal(t, 10, priceStore.limit)
	require.Equal(t, 2, summaryStore.limit)

	_, blob, found := strings.Cut(prompt, "Context:\n")
	require.True(t, found)

	var data digestData
	require.NoError(t, json.Unmarshal([]byte(blob), &data))
	require.Len(t, data.BTCData, 10)
	require.Len(t, data.NewsData, 2)
	for i, p := range prices {
		require.Equal(t, p.ID, data.BTCData[i].ID)
		require.True(t, p.Price.Equal(data.BTCData[i].Price))
	}
	require.Equal(t, int64(8), data.NewsData[0].ID)
	require.Equal(t, "ETF inflows rose.", data.NewsData[1].SummaryText)

	require.Equal(t, "BTC holds 65k", sent.Subject)
	require.Equal(t, "Bitcoin traded flat.\nWatch 64k.", sent.Text)
	require.Equal(t, mail.RenderHTML(sent.Text), sent.HTML)
	require.Equal(t, sender, sent.From)
	require.Equal(t, recipient, sent.To)
}

func TestDigestMailerNeverSendsEmptyDigest(t *testing.T) {
	tests := []struct {
		name       string
		completion string
		genErr     error
	}{
		{name: "subject only", completion: "Subject: BTC update"},
		{name: "blank", completion: "  \n\n "},
		{name: "empty label", completion: "Subject:\n"},
		{name: "generation error", genErr: llm.ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			generator := NewMockGenerator(ctrl)
			mailer := NewMockSender(ctrl)

			prices, summaries := digestFixtures()
			generator.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.completion, tt.genErr)
			mailer.EXPECT().Name().Return("mailjet").AnyTimes()
			mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)

			job := NewDigestMailer(&fakePriceStore{latest: prices}, &fakeSummaryStore{latest: summaries}, generator, mailer, sender, recipient)
			err := job.Run(t.Context())
			require.Error(t, err)
			if tt.genErr == nil {
				require.ErrorIs(t, err, ErrEmptyDigest)
			}
		})
	}
}

func TestDigestMailerAbortsOnReadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	generator := NewMockGenerator(ctrl)
	mailer := NewMockSender(ctrl)

	generator.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)

	readErr := errors.New("relation does not exist")
	job := NewDigestMailer(&fakePriceStore{}, &fakeSummaryStore{readErr: readErr}, generator, mailer, sender, recipient)

	err := job.Run(t.Context())
	require.ErrorIs(t, err, ErrReadFailed)
	require.ErrorIs(t, err, readErr)
}

func TestDigestMailerDeliveryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	generator := NewMockGenerator(ctrl)
	mailer := NewMockSender(ctrl)

	prices, summaries := digestFixtures()
	generator.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).Return("Subject: s\nbody", nil)
	mailer.EXPECT().Name().Return("sendgrid").AnyTimes()
	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(&mail.DeliveryError{Provider: "sendgrid", StatusCode: 401, Body: "unauthorized"})

	job := NewDigestMailer(&fakePriceStore{latest: prices}, &fakeSummaryStore{latest: summaries}, generator, mailer, sender, recipient)
	err := job.Run(t.Context())

	var deliveryErr *mail.DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	require.Equal(t, 401, deliveryErr.StatusCode)
}

func TestDigestContextWithNoRows(t *testing.T) {
	blob, err := DigestContext(nil, nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"btc_data":[],"news_data":[]}`, blob)
}
