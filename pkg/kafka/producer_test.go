package kafka

import (
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducer_Publish(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := newProducer(mockProducer)

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var body map[string]map[string]interface{}
		if err := json.Unmarshal(val, &body); err != nil {
			return err
		}
		assert.Equal(t, float64(7), body["order"]["id"])
		return nil
	})

	err := producer.Publish("order_created", map[string]interface{}{
		"order": map[string]interface{}{"id": 7},
	})
	require.NoError(t, err)
	require.NoError(t, producer.Close())
}

func TestProducer_PublishError(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := newProducer(mockProducer)

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := producer.Publish("order_created", map[string]int{"id": 1})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, producer.Close())
}

func TestProducer_PublishMarshalError(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := newProducer(mockProducer)

	err := producer.Publish("order_created", map[string]interface{}{"bad": make(chan int)})
	assert.ErrorContains(t, err, "failed to marshal")
	require.NoError(t, producer.Close())
}
