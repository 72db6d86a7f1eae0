// Package pubsub publishes finished analyses on a NATS subject so
// downstream consumers (dashboards, notifiers) can pick them up.
package pubsub

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/nats-io/nats.go"
	"github.com/ohler55/ojg/oj"

	"github.com/mpapenbr/racepace-analyzer-go/log"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
)

const (
	raceSubjectPattern   = "racepace.analysis.%d"
	seasonSubjectPattern = "racepace.season.%d"
)

type Publisher struct {
	conn *nats.Conn
	log  *log.Logger
}

type PublisherOption func(p *Publisher)

func WithLogger(logger *log.Logger) PublisherOption {
	return func(p *Publisher) { p.log = logger }
}

func NewPublisher(url string, opts ...PublisherOption) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("racepace-analyzer"),
		nats.MaxReconnects(5))
	if err != nil {
		return nil, err
	}
	ret := &Publisher{conn: conn, log: log.Default().Named("pubsub")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret, nil
}

func (p *Publisher) PublishRace(analysis *model.RaceAnalysis) error {
	subject := fmt.Sprintf(raceSubjectPattern, analysis.Event.ID)
	return p.publish(subject, []byte(oj.JSON(analysis)))
}

func (p *Publisher) PublishSeason(year int, profiles []model.SeasonProfile) error {
	subject := fmt.Sprintf(seasonSubjectPattern, year)
	return p.publish(subject, []byte(oj.JSON(profiles)))
}

// publish attaches a message id so JetStream consumers can deduplicate
// re-runs of the same analysis.
func (p *Publisher) publish(subject string, data []byte) error {
	msgID, err := uuid.NewV4()
	if err != nil {
		return err
	}
	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{"Nats-Msg-Id": []string{msgID.String()}},
	}
	if err := p.conn.PublishMsg(msg); err != nil {
		return err
	}
	p.log.Debug("published",
		log.String("subject", subject),
		log.String("msgId", msgID.String()),
		log.Int("bytes", len(data)))
	return nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Flush() //nolint:errcheck // best effort on shutdown
		p.conn.Close()
	}
}
